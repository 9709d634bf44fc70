package cache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachetrace/cache"
)

var _ = Describe("Simulator", func() {
	Describe("scenario S1: direct-mapped, no VC, no prefetch", func() {
		It("misses twice and hits twice on an alternating 2-address trace", func() {
			sim := cache.Init(cache.Geometry{C: 4, B: 1, S: 0, V: 0, K: 0})
			for _, ref := range []struct {
				rw   cache.RW
				addr uint64
			}{
				{cache.Read, 0}, {cache.Read, 2}, {cache.Read, 0}, {cache.Read, 2},
			} {
				sim.Access(ref.rw, ref.addr)
			}
			stats := sim.Finalize()
			Expect(stats.Reads).To(Equal(uint64(4)))
			Expect(stats.ReadMisses).To(Equal(uint64(2)))
			Expect(stats.Writes).To(Equal(uint64(0)))
			Expect(stats.WriteBacks).To(Equal(uint64(0)))
		})
	})

	Describe("scenario S2: writes and a cross-set read", func() {
		It("only writes back when the eviction is in the same set", func() {
			sim := cache.Init(cache.Geometry{C: 4, B: 1, S: 0, V: 0, K: 0})
			sim.Access(cache.Write, 0)
			sim.Access(cache.Write, 0)
			sim.Access(cache.Read, 2)
			sim.Access(cache.Read, 0)

			stats := sim.Finalize()
			Expect(stats.Writes).To(Equal(uint64(2)))
			Expect(stats.WriteMisses).To(Equal(uint64(1)))
			Expect(stats.Reads).To(Equal(uint64(2)))
			Expect(stats.ReadMisses).To(Equal(uint64(1)))
			Expect(stats.WriteBacks).To(Equal(uint64(0)))
		})
	})

	Describe("scenario S3: colliding tags in one set, dirty eviction", func() {
		It("writes back the dirty line displaced from the set", func() {
			sim := cache.Init(cache.Geometry{C: 3, B: 0, S: 1, V: 0, K: 0})
			sim.Access(cache.Read, 0)
			sim.Access(cache.Write, 8)
			sim.Access(cache.Read, 16)
			sim.Access(cache.Read, 0)

			stats := sim.Finalize()
			Expect(stats.Reads).To(Equal(uint64(3)))
			Expect(stats.Writes).To(Equal(uint64(1)))
			Expect(stats.ReadMisses).To(Equal(uint64(3)))
			Expect(stats.WriteMisses).To(Equal(uint64(1)))
			Expect(stats.WriteBacks).To(Equal(uint64(1)))
		})
	})

	Describe("scenario S4: victim buffer rescue", func() {
		It("hits in the victim buffer after a sequence of L1 evictions", func() {
			sim := cache.Init(cache.Geometry{C: 2, B: 0, S: 0, V: 2, K: 0})
			sim.Access(cache.Read, 0)
			sim.Access(cache.Read, 4)
			sim.Access(cache.Read, 8)
			sim.Access(cache.Read, 0)

			stats := sim.Finalize()
			Expect(stats.Misses).To(Equal(uint64(4)))
			Expect(stats.VCMisses).To(Equal(uint64(3)))
			Expect(stats.WriteBacks).To(Equal(uint64(0)))
		})
	})

	Describe("scenario S5/S6: stride prefetch fires and is later useful", func() {
		It("prefetches block 12 after detecting a stride-4 pattern", func() {
			sim := cache.Init(cache.Geometry{C: 5, B: 0, S: 0, V: 0, K: 1})
			sim.Access(cache.Read, 0)
			sim.Access(cache.Read, 4)
			sim.Access(cache.Read, 8)

			stats := sim.Finalize()
			Expect(stats.Misses).To(Equal(uint64(3)))
			Expect(stats.VCMisses).To(Equal(uint64(3)))
			Expect(stats.PrefetchedBlocks).To(Equal(uint64(1)))
			Expect(stats.UsefulPrefetches).To(Equal(uint64(0)))
		})

		It("counts the prefetched block as useful once it is demand-touched", func() {
			sim := cache.Init(cache.Geometry{C: 5, B: 0, S: 0, V: 0, K: 1})
			sim.Access(cache.Read, 0)
			sim.Access(cache.Read, 4)
			sim.Access(cache.Read, 8)
			sim.Access(cache.Read, 12)

			stats := sim.Finalize()
			Expect(stats.Reads).To(Equal(uint64(4)))
			Expect(stats.Misses).To(Equal(uint64(3)))
			Expect(stats.UsefulPrefetches).To(Equal(uint64(1)))
		})
	})

	Describe("boundary: V == 0 && K == 0", func() {
		It("behaves as a pure LRU set-associative cache", func() {
			sim := cache.Init(cache.Geometry{C: 6, B: 2, S: 1, V: 0, K: 0})
			sim.Access(cache.Read, 0)
			sim.Access(cache.Read, 4)
			sim.Access(cache.Read, 0)

			stats := sim.Finalize()
			Expect(stats.VCMisses).To(Equal(stats.Misses))
			Expect(stats.PrefetchedBlocks).To(Equal(uint64(0)))
			Expect(stats.UsefulPrefetches).To(Equal(uint64(0)))
		})
	})

	Describe("boundary: K == 0, V > 0", func() {
		It("never charges prefetch counters", func() {
			sim := cache.Init(cache.Geometry{C: 6, B: 2, S: 1, V: 4, K: 0})
			for i := uint64(0); i < 20; i++ {
				sim.Access(cache.Read, i*4)
			}
			stats := sim.Finalize()
			Expect(stats.PrefetchedBlocks).To(Equal(uint64(0)))
			Expect(stats.UsefulPrefetches).To(Equal(uint64(0)))
		})
	})

	Describe("boundary: S == C - B, fully associative", func() {
		It("places every address in set zero", func() {
			sim := cache.Init(cache.Geometry{C: 5, B: 2, S: 3, V: 0, K: 0})
			Expect(sim.Geometry().NumSets()).To(Equal(1))
		})
	})

	Describe("identities at finalize time", func() {
		It("holds accesses == reads+writes and misses >= vc_misses", func() {
			sim := cache.Init(cache.Geometry{C: 10, B: 4, S: 2, V: 3, K: 2})
			for i := uint64(0); i < 200; i++ {
				rw := cache.Read
				if i%3 == 0 {
					rw = cache.Write
				}
				sim.Access(rw, i*16)
			}
			stats := sim.Finalize()
			Expect(stats.Accesses).To(Equal(stats.Reads + stats.Writes))
			Expect(stats.Misses).To(Equal(stats.ReadMisses + stats.WriteMisses))
			Expect(stats.Misses).To(BeNumerically(">=", stats.VCMisses))
			Expect(stats.UsefulPrefetches).To(BeNumerically("<=", stats.PrefetchedBlocks))
			Expect(stats.BytesTransferred).To(Equal(
				(uint64(1) << 4) * (stats.VCMisses + stats.WriteBacks + stats.PrefetchedBlocks)))
		})
	})

	Describe("unknown rw tag", func() {
		It("is silently ignored", func() {
			sim := cache.Init(cache.Geometry{C: 10, B: 4, S: 2, V: 0, K: 0})
			sim.Access(cache.RW('x'), 0)
			stats := sim.Finalize()
			Expect(stats.Accesses).To(Equal(uint64(0)))
		})
	})

	Describe("determinism", func() {
		It("produces bit-identical counters across a fresh re-run", func() {
			run := func() cache.Stats {
				sim := cache.Init(cache.Geometry{C: 12, B: 5, S: 2, V: 4, K: 2})
				for i := uint64(0); i < 500; i++ {
					rw := cache.Read
					if i%5 == 0 {
						rw = cache.Write
					}
					sim.Access(rw, (i*37)%4096)
				}
				return sim.Finalize()
			}
			Expect(run()).To(Equal(run()))
		})

		It("yields the same counters whether run straight through or split", func() {
			addrs := make([]uint64, 300)
			for i := range addrs {
				addrs[i] = uint64(i*13) % 2048
			}

			straight := cache.Init(cache.Geometry{C: 11, B: 4, S: 1, V: 2, K: 1})
			for _, a := range addrs {
				straight.Access(cache.Read, a)
			}

			split := cache.Init(cache.Geometry{C: 11, B: 4, S: 1, V: 2, K: 1})
			for _, a := range addrs[:150] {
				split.Access(cache.Read, a)
			}
			for _, a := range addrs[150:] {
				split.Access(cache.Read, a)
			}

			Expect(split.Finalize()).To(Equal(straight.Finalize()))
		})
	})
})
