// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fdr implements Lumbroso's Fast Dice Roller algorithm, which
// optimally samples the discrete uniform distribution from a finite
// stream of random bits. Per spec.md §4.1 it is used only where
// CSPRNG.GenRange is insufficient: vote-code generation draws its
// 16-digit values this way so that the sampling can be reproduced from
// a single fixed-size byte buffer rather than an open-ended stream.
// Summand tables are drawn with CSPRNG.GenRange, not with this roller.
package fdr

import "math/big"

// Roller consumes a fixed byte buffer as a bit source.
type Roller struct {
	stream    []byte
	byteIndex int
	bitIndex  int
}

// FromBytes constructs a Roller over stream. The caller owns stream;
// Roller does not modify it.
func FromBytes(stream []byte) *Roller {
	return &Roller{stream: stream}
}

// next returns the next bit from the stream, or false as ok if the
// stream is exhausted.
func (r *Roller) next() (bit uint, ok bool) {
	if r.byteIndex >= len(r.stream) {
		return 0, false
	}
	b := r.stream[r.byteIndex]
	bit = uint((b << uint(r.bitIndex)) & 0x80 >> 7)
	r.bitIndex = (r.bitIndex + 1) % 8
	if r.bitIndex == 0 {
		r.byteIndex++
	}
	return bit, true
}

// Random draws an unbiased sample from [0, n) using Lumbroso's
// algorithm. It returns ok == false (ErrBitsExhausted in spirit) if the
// underlying stream runs out of bits before a sample could be drawn;
// callers should lengthen the buffer and retry, per spec.md §4.1.
func (r *Roller) Random(n *big.Int) (value *big.Int, ok bool) {
	v := big.NewInt(1)
	c := big.NewInt(0)
	one := big.NewInt(1)
	for {
		v.Lsh(v, 1)
		c.Lsh(c, 1)
		bit, got := r.next()
		if !got {
			return nil, false
		}
		if bit == 1 {
			c.Add(c, one)
		}
		if n.Cmp(v) <= 0 {
			if c.Cmp(n) < 0 {
				break
			}
			v.Sub(v, n)
			c.Sub(c, n)
		}
	}
	return c, true
}
