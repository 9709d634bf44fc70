package cache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachetrace/cache"
)

var _ = Describe("Geometry", func() {
	Describe("DefaultGeometry", func() {
		It("matches the collaborator driver's documented defaults", func() {
			g := cache.DefaultGeometry()
			Expect(g).To(Equal(cache.Geometry{C: 15, B: 5, S: 3, V: 4, K: 2}))
		})
	})

	Describe("Validate", func() {
		It("rejects C < B+S", func() {
			g := cache.Geometry{C: 4, B: 3, S: 3}
			Expect(g.Validate()).To(HaveOccurred())
		})

		It("accepts C == B+S", func() {
			g := cache.Geometry{C: 6, B: 3, S: 3}
			Expect(g.Validate()).NotTo(HaveOccurred())
		})
	})

	Describe("derived quantities", func() {
		It("computes associativity, set count, and block size", func() {
			g := cache.Geometry{C: 15, B: 5, S: 3}
			Expect(g.Assoc()).To(Equal(8))
			Expect(g.NumSets()).To(Equal(1 << (15 - 5 - 3)))
			Expect(g.BlockSize()).To(Equal(uint64(32)))
		})
	})

	Describe("Init with an invalid geometry", func() {
		It("panics instead of constructing a broken simulator", func() {
			Expect(func() {
				cache.Init(cache.Geometry{C: 2, B: 3, S: 0})
			}).To(Panic())
		})
	})
})
