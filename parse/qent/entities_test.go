package qent

import (
	"errors"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestEntitiesAccessors(t *testing.T) {
	convey.Convey("checked accessors", t, func() {
		ents, err := ParseString(worldspawnAndLight, NewOptions())
		convey.So(err, convey.ShouldBeNil)

		en, err := ents.Entity(1)
		convey.So(err, convey.ShouldBeNil)
		kv, err := en.KeyValue(1)
		convey.So(err, convey.ShouldBeNil)
		convey.So(string(kv.Key()), convey.ShouldEqual, "origin")
		convey.So(string(kv.Value()), convey.ShouldEqual, "0 0 32")
		convey.So(kv.Equal([]byte("origin"), []byte("0 0 32")), convey.ShouldBeTrue)

		for _, i := range []int{-1, 2, 100} {
			_, err = ents.Entity(i)
			convey.So(errors.Is(err, ErrIndexOutOfRange), convey.ShouldBeTrue)
			_, err = en.KeyValue(i)
			convey.So(errors.Is(err, ErrIndexOutOfRange), convey.ShouldBeTrue)
		}
	})

	convey.Convey("unchecked accessors panic past the end", t, func() {
		ents, err := ParseString(`{ a b }`, NewOptions())
		convey.So(err, convey.ShouldBeNil)
		convey.So(func() { ents.At(1) }, convey.ShouldPanic)
		convey.So(func() { ents.At(0).At(1) }, convey.ShouldPanic)
	})

	convey.Convey("iteration stops early", t, func() {
		ents, err := ParseString(`{a 1}{b 2}{c 3}`, NewOptions())
		convey.So(err, convey.ShouldBeNil)
		seen := 0
		for i := range ents.All() {
			seen++
			if i == 1 {
				break
			}
		}
		convey.So(seen, convey.ShouldEqual, 2)
	})

	convey.Convey("result does not alias the input", t, func() {
		src := []byte(`{ "classname" "light" }`)
		ents, err := Parse(src, NewOptions())
		convey.So(err, convey.ShouldBeNil)
		for i := range src {
			src[i] = 'x'
		}
		convey.So(pairsOf(ents.At(0)), convey.ShouldResemble, [][2]string{{"classname", "light"}})
	})

	convey.Convey("returned slices cannot grow into neighbours", t, func() {
		ents, err := ParseString(`{ a b }`, NewOptions())
		convey.So(err, convey.ShouldBeNil)
		key := ents.At(0).At(0).Key()
		_ = append(key, 'z')
		convey.So(string(ents.At(0).At(0).Value()), convey.ShouldEqual, "b")
	})
}

func TestChunkStore(t *testing.T) {
	convey.Convey("identical strings are stored once", t, func() {
		ents, err := ParseString(worldspawnAndLight, NewOptions())
		convey.So(err, convey.ShouldBeNil)
		// classname, worldspawn, wad, mywad.wad, light, origin, "0 0 32"
		convey.So(len(ents.store.chunks), convey.ShouldEqual, 7)
		convey.So(ents.store.index, convey.ShouldBeNil)
	})

	convey.Convey("intern returns stable indices", t, func() {
		s := newChunkStore()
		a := s.intern([]byte("classname"))
		b := s.intern([]byte("light"))
		convey.So(s.intern([]byte("classname")), convey.ShouldEqual, a)
		convey.So(s.intern([]byte("light")), convey.ShouldEqual, b)
		empty := s.intern(nil)
		convey.So(s.intern([]byte{}), convey.ShouldEqual, empty)
		convey.So(string(s.get(a)), convey.ShouldEqual, "classname")
		convey.So(string(s.get(b)), convey.ShouldEqual, "light")
		convey.So(len(s.get(empty)), convey.ShouldEqual, 0)
		convey.So(len(s.bytes), convey.ShouldEqual, len("classnamelight"))
	})
}

func TestLocationString(t *testing.T) {
	convey.Convey("location formatting", t, func() {
		loc := Location{Line: 3, Column: 7, Offset: 42}
		convey.So(loc.String(), convey.ShouldEqual, "line 3, column 7 (offset 42)")
		convey.So(loc == Location{Line: 3, Column: 7, Offset: 42}, convey.ShouldBeTrue)
		convey.So(loc == Location{Line: 3, Column: 7, Offset: 41}, convey.ShouldBeFalse)
	})
}
