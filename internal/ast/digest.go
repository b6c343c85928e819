package ast

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Digest is a fixed-width content hash of an expression's canonical
// serialization, excluding auxiliary data. Two expressions have equal
// digests iff they are structurally equal after ignoring aux data
// (Invariant 2 / Testable Property 7).
//
// The corpus offers no third-party content-addressing/hash-consing
// library (see DESIGN.md); crypto/sha256 from the standard library is
// used, matching the digest function named by the original kernel this
// was distilled from.
type Digest [sha256.Size]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Hashed wraps a node together with the digest computed over it (and,
// transitively, over its children's digests). The New* constructors in
// consing.go are the only code that produces one, so every Hashed value in
// the tree is guaranteed
// deterministic and content-addressed.
type Hashed[T any] struct {
	Value  T
	Digest Digest
}

// digestBuilder accumulates the canonical byte sequence hashed into a
// node's digest.
type digestBuilder struct {
	b []byte
}

func newDigestBuilder(tag Tag) *digestBuilder {
	db := &digestBuilder{b: make([]byte, 0, 64)}
	db.b = append(db.b, byte(tag))
	return db
}

func (db *digestBuilder) writeDigest(d Digest) *digestBuilder {
	db.b = append(db.b, d[:]...)
	return db
}

func (db *digestBuilder) writeUint64(v uint64) *digestBuilder {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	db.b = append(db.b, buf[:]...)
	return db
}

func (db *digestBuilder) writeBool(v bool) *digestBuilder {
	if v {
		db.b = append(db.b, 1)
	} else {
		db.b = append(db.b, 0)
	}
	return db
}

func (db *digestBuilder) writeString(s string) *digestBuilder {
	db.writeUint64(uint64(len(s)))
	db.b = append(db.b, s...)
	return db
}

func (db *digestBuilder) writeUniverse(u Universe) *digestBuilder {
	return db.writeUint64(u.Level).writeBool(u.Erasable)
}

func (db *digestBuilder) writeExprs(exprs []exprDigester) *digestBuilder {
	db.writeUint64(uint64(len(exprs)))
	for _, e := range exprs {
		db.writeDigest(e.Digest())
	}
	return db
}

func (db *digestBuilder) sum() Digest {
	return sha256.Sum256(db.b)
}

// exprDigester is satisfied by any Expr[A]; kept as a narrow interface so
// digestBuilder need not be generic over A.
type exprDigester interface {
	Digest() Digest
}

func exprsToDigesters[A AuxDataFamily](exprs []Expr[A]) []exprDigester {
	out := make([]exprDigester, len(exprs))
	for i, e := range exprs {
		out[i] = e
	}
	return out
}

// DigestSlice computes a content digest over a slice of expressions,
// letting callers (e.g. the evaluator's per-slice memoization cache) key
// on a []Expr the same way a single Expr keys on its own Digest.
func DigestSlice[A AuxDataFamily](exprs []Expr[A]) Digest {
	db := &digestBuilder{b: make([]byte, 0, 64)}
	db.writeExprs(exprsToDigesters(exprs))
	return db.sum()
}
