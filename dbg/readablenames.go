package dbg

import (
	"fmt"
	"reflect"

	petname "github.com/dustinkirkland/golang-petname"
)

// This converts arbitrary pointers into random readable names, which makes
// verbose traces of triangle and subsegment handles far easier to follow than
// raw addresses. It flagrantly leaks memory, but names are generated lazily,
// so it costs nothing unless a trace is actually being read.

var memo map[interface{}]string

func init() {
	memo = make(map[interface{}]string)
	// Names are handed out in order of demand, so they are made
	// nondeterministic to remind the reader that the same name doesn't refer
	// to the same object between runs.
	petname.NonDeterministicMode()
}

func Name(obj interface{}) string {
	if obj == nil || reflect.ValueOf(obj).IsNil() {
		return "Ø"
	}

	if r, ok := memo[obj]; ok {
		return r
	}
	r := fmt.Sprintf("%s-%s", petname.Adjective(), petname.Name())
	memo[obj] = r
	return r
}
