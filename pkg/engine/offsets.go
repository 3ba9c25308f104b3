package engine

import "math/rand"

// offsetSeq yields the starting offset for each transfer in a pass. Every
// offset lies in [0, range-io_size] and is MinAlign-aligned.
type offsetSeq interface {
	next() int64
}

func (p *Params) offsets(rng *rand.Rand) offsetSeq {
	if p.Rand {
		return newRandOffsets(p.IOSize, p.Range, rng)
	}
	return newSeqOffsets(p.IOSize, p.Stride, p.Range)
}

// seqOffsets starts at 0, advances by io_size+stride, and wraps to 0 once
// the next transfer would start past range-io_size.
type seqOffsets struct {
	pos   int64
	step  int64
	limit int64 // largest valid starting offset
}

func newSeqOffsets(ioSize, stride int, extent int64) *seqOffsets {
	return &seqOffsets{
		step:  int64(ioSize + stride),
		limit: extent - int64(ioSize),
	}
}

func (s *seqOffsets) next() int64 {
	if s.pos > s.limit {
		s.pos = 0
	}
	off := s.pos
	s.pos += s.step
	return off
}

// randOffsets draws each offset independently and uniformly from the
// MinAlign-aligned grid within [0, range-io_size]. No state is carried
// between draws beyond the process-owned RNG.
type randOffsets struct {
	rng   *rand.Rand
	slots int64
}

func newRandOffsets(ioSize int, extent int64, rng *rand.Rand) *randOffsets {
	return &randOffsets{
		rng:   rng,
		slots: (extent-int64(ioSize))/MinAlign + 1,
	}
}

func (r *randOffsets) next() int64 {
	return r.rng.Int63n(r.slots) * MinAlign
}
