package keeper_test

import (
	"github.com/ethereum/go-ethereum/common"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/EscanBE/tstore/x/evm/asm"
	"github.com/EscanBE/tstore/x/evm/layout"
	evmtypes "github.com/EscanBE/tstore/x/evm/types"
)

var _ = Describe("Transient storage of an inherited contract", func() {
	var (
		contractLayout *layout.Layout
		contract       common.Address
		driver         common.Address
	)

	// C extends A, A declares transient x and persistent y, C declares persistent w and transient z.
	counters := []counter{
		{name: "x", delta: 1},
		{name: "y", delta: 1},
		{name: "w", delta: 2},
		{name: "z", delta: 2},
	}

	BeforeEach(func() {
		Expect(s.setup()).To(Succeed())

		a := &layout.Contract{
			Name: "A",
			Vars: []layout.Variable{
				{Name: "x", Size: 32, Transient: true},
				{Name: "y", Size: 32},
			},
		}
		c := &layout.Contract{
			Name:  "C",
			Bases: []*layout.Contract{a},
			Vars: []layout.Variable{
				{Name: "w", Size: 32},
				{Name: "z", Size: 32, Transient: true},
			},
		}

		var err error
		contractLayout, err = layout.Resolve(c)
		Expect(err).ToNot(HaveOccurred())

		contract, err = s.deploy(counterSource(contractLayout, counters))
		Expect(err).ToNot(HaveOccurred())

		driver, err = s.deploy(asm.RepeatCallSource(contract, 2, len(counters)*32))
		Expect(err).ToNot(HaveOccurred())
	})

	It("resolves transient and persistent variables into independent slot spaces", func() {
		Expect(contractLayout.MustLookup("x").Slot).To(Equal(contractLayout.MustLookup("y").Slot))
		Expect(contractLayout.MustLookup("z").Slot).To(Equal(contractLayout.MustLookup("w").Slot))
		Expect(contractLayout.MustLookup("x").Transient).To(BeTrue())
		Expect(contractLayout.MustLookup("w").Transient).To(BeFalse())
	})

	Context("first call in a fresh transaction", func() {
		It("returns (1, 1, 2, 2)", func() {
			res, err := s.call(contract, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(res.Failed()).To(BeFalse(), res.VmError)
			Expect(words(res.Ret)).To(Equal([]uint64{1, 1, 2, 2}))
		})
	})

	Context("second call within the same transaction", func() {
		It("observes the transient values written by the first call", func() {
			res, err := s.call(driver, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(res.Failed()).To(BeFalse(), res.VmError)
			Expect(words(res.Ret)).To(Equal([]uint64{
				1, 1, 2, 2, // first call
				2, 2, 4, 4, // second call
			}))
		})
	})

	Context("first call of the following transaction", func() {
		It("starts with cleared transient values and keeps persistent values", func() {
			res, err := s.call(driver, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(res.Failed()).To(BeFalse(), res.VmError)

			s.Commit()

			res, err = s.call(contract, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(res.Failed()).To(BeFalse(), res.VmError)
			Expect(words(res.Ret)).To(Equal([]uint64{1, 3, 6, 2}))

			y := contractLayout.MustLookup("y")
			Expect(s.keeper.GetState(s.ctx, contract, y.Slot)).To(Equal(common.BigToHash(common.Big3)))
		})
	})

	Context("transient storage not activated", func() {
		BeforeEach(func() {
			params := evmtypes.DefaultParams()
			params.ChainConfig = evmtypes.PreCancunChainConfig()
			params.ExtraEIPs = nil
			Expect(s.keeper.SetParams(s.ctx, params)).To(Succeed())
		})

		It("rejects the deployment of code using transient storage", func() {
			_, err := s.deploy(counterSource(contractLayout, counters))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(evmtypes.ErrUnsupportedFeature.Error()))
		})

		It("rejects the execution of code deployed before", func() {
			_, err := s.call(contract, nil)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(evmtypes.ErrUnsupportedFeature.Error()))
		})
	})
})
