package qent

// builderState is the builder's position in the grammar. The two inside states
// share the payload kept in builder.cur.
type builderState uint8

const (
	stateOutside builderState = iota
	stateAwaitingKey
	stateAwaitingValue
)

// openEntity is the payload of the inside states.
type openEntity struct {
	start   Location
	firstKV int
	pairs   int
	// key is the interned pending key in stateAwaitingValue.
	key int
}

// builder consumes tokens and assembles an Entities collection.
type builder struct {
	opts  Options
	state builderState
	cur   openEntity

	entities  []entityInfo
	keyValues []keyValueInfo
	store     *chunkStore
}

func newBuilder(opts Options) *builder {
	return &builder{opts: opts, store: newChunkStore()}
}

// feed applies one token. It reports done once TokenEOF is accepted.
func (b *builder) feed(tok Token) (done bool, err error) {
	switch tok.Kind {
	case TokenOpenBrace:
		if b.state != stateOutside {
			return false, errAt(NestedEntity, tok.Location)
		}
		b.cur = openEntity{start: tok.Location, firstKV: len(b.keyValues)}
		b.state = stateAwaitingKey

	case TokenCloseBrace:
		switch b.state {
		case stateOutside:
			return false, errAt(UnexpectedCloseBrace, tok.Location)
		case stateAwaitingValue:
			return false, errAt(DanglingKey, tok.Location)
		}
		if b.opts.maxEntities.exceeded(len(b.entities) + 1) {
			return false, limitErrAt(TooManyEntities, tok.Location, b.opts.maxEntities)
		}
		b.entities = append(b.entities, entityInfo{firstKV: b.cur.firstKV, kvCount: b.cur.pairs})
		b.state = stateOutside

	case TokenString:
		switch b.state {
		case stateOutside:
			return false, errAt(StringOutsideEntity, tok.Location)
		case stateAwaitingKey:
			if b.opts.maxKeyLength.exceeded(len(tok.Text)) {
				return false, limitErrAt(KeyTooLong, tok.Location, b.opts.maxKeyLength)
			}
			b.cur.key = b.store.intern(tok.Text)
			b.state = stateAwaitingValue
		case stateAwaitingValue:
			if b.opts.maxValueLength.exceeded(len(tok.Text)) {
				return false, limitErrAt(ValueTooLong, tok.Location, b.opts.maxValueLength)
			}
			if b.opts.maxEntityKeyValues.exceeded(b.cur.pairs + 1) {
				return false, limitErrAt(TooManyKeyValuePairs, tok.Location, b.opts.maxEntityKeyValues)
			}
			b.keyValues = append(b.keyValues, keyValueInfo{key: b.cur.key, value: b.store.intern(tok.Text)})
			b.cur.pairs++
			b.state = stateAwaitingKey
		}

	case TokenEOF:
		if b.state != stateOutside {
			return false, errAt(UnexpectedEOF, b.cur.start)
		}
		return true, nil
	}
	return false, nil
}

func (b *builder) finish() *Entities {
	b.store.freeze()
	return &Entities{entities: b.entities, keyValues: b.keyValues, store: b.store}
}
