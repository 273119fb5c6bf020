package engine

import (
	"go.uber.org/zap"
)

// DepthEpsilon separates entities sharing a nominal depth
const DepthEpsilon = 1e-6

// depthResolver assigns unique ordering keys from nominal depths
// The offset table lives as long as the scene and never shrinks: removals
// do not release their slot. Very dense buckets on long-lived scenes push
// the offset toward the float precision of the nominal depth, precision loss
// is reported once per bucket
type depthResolver struct {
	offsets map[float64]uint64
	seq     uint64
	warned  map[float64]struct{}
	log     *zap.Logger
}

func newDepthResolver(log *zap.Logger) *depthResolver {
	return &depthResolver{
		offsets: make(map[float64]uint64),
		warned:  make(map[float64]struct{}),
		log:     log,
	}
}

// resolve stamps b with depth - k*DepthEpsilon, k being the bucket's prior resolutions
func (r *depthResolver) resolve(b *Base) {
	k := r.offsets[b.depth]
	r.offsets[b.depth] = k + 1

	b.actualDepth = b.depth - float64(k)*DepthEpsilon
	r.seq++
	b.depthSeq = r.seq

	if k > 0 && b.actualDepth == b.depth {
		if _, ok := r.warned[b.depth]; !ok {
			r.warned[b.depth] = struct{}{}
			r.log.Warn("depth offset lost to float precision",
				zap.Float64("depth", b.depth),
				zap.Uint64("bucket_size", k+1))
		}
	}
}

// bucketSize returns how many resolutions the nominal depth has seen
func (r *depthResolver) bucketSize(depth float64) uint64 {
	return r.offsets[depth]
}
