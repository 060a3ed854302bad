package interpolate

import (
	"github.com/ajroetker/go-highway/hwy"
)

// BaseScaledAdd accumulates a scaled row into dst:
// dst[i] += alpha * src[i]
//
// This is the inner loop of every convolution, so it is written against
// hwy vectors and falls back to masked loads for the tail.
func BaseScaledAdd[T hwy.Floats](alpha T, src, dst []T) {
	size := min(len(src), len(dst))

	vAlpha := hwy.Set(alpha)

	hwy.ProcessWithTail[T](size,
		func(offset int) {
			vSrc := hwy.Load(src[offset:])
			vDst := hwy.Load(dst[offset:])

			hwy.Store(hwy.FMA(vAlpha, vSrc, vDst), dst[offset:])
		},
		func(offset, count int) {
			mask := hwy.TailMask[T](count)
			vSrc := hwy.MaskLoad(mask, src[offset:])
			vDst := hwy.MaskLoad(mask, dst[offset:])

			hwy.MaskStore(mask, hwy.FMA(vAlpha, vSrc, vDst), dst[offset:])
		},
	)
}
