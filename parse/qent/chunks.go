package qent

// chunk is a byte range inside a chunkStore's buffer.
type chunk struct {
	offset int
	length int
}

// chunkStore keeps every distinct byte string once in a single buffer. Map files
// repeat the same handful of keys ("classname", "origin", ...) thousands of times.
type chunkStore struct {
	bytes  []byte
	chunks []chunk
	index  map[string]int
}

func newChunkStore() *chunkStore {
	return &chunkStore{index: make(map[string]int)}
}

// intern returns the chunk index for b, copying b into the store on first sight.
func (s *chunkStore) intern(b []byte) int {
	if i, ok := s.index[string(b)]; ok {
		return i
	}
	i := len(s.chunks)
	s.chunks = append(s.chunks, chunk{offset: len(s.bytes), length: len(b)})
	s.bytes = append(s.bytes, b...)
	s.index[string(b)] = i
	return i
}

func (s *chunkStore) get(i int) []byte {
	c := s.chunks[i]
	end := c.offset + c.length
	return s.bytes[c.offset:end:end]
}

// freeze drops the lookup index once building is done.
func (s *chunkStore) freeze() {
	s.index = nil
}
