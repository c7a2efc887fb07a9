package device_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/qpulse/internal/device"
	"github.com/san-kum/qpulse/internal/quantum"
	"github.com/san-kum/qpulse/internal/signal"
)

// rejectingSignal refuses every bind while delegating everything else.
type rejectingSignal struct{ *signal.Constant }

func (rejectingSignal) Bind([]float64) error { return errors.New("bind rejected") }

func pairDevice() (*device.Transmon, error) {
	return device.NewTransmon(
		[]float64{4.8, 4.9},
		[]float64{0.3, 0.3},
		[]device.Coupling{{Pair: device.NewQuple(0, 1), G: 0.02}},
		[]device.Channel{
			{Qubit: 0, Freq: 4.8, Signal: signal.NewConstant(0.02, 0)},
			{Qubit: 1, Freq: 4.9, Signal: signal.NewConstant(0.02, 0.01)},
		},
		3,
	)
}

var _ = Describe("Quple", func() {
	It("compares equal regardless of argument order", func() {
		Expect(device.NewQuple(2, 5)).To(Equal(device.NewQuple(5, 2)))
	})

	It("stores the smaller index first", func() {
		q := device.NewQuple(4, 1)
		Expect(q.P).To(Equal(1))
		Expect(q.Q).To(Equal(4))
	})
})

var _ = Describe("NewTransmon", func() {
	It("accepts a consistent two-qubit device", func() {
		dev, err := pairDevice()
		Expect(err).NotTo(HaveOccurred())
		Expect(dev.NQubits()).To(Equal(2))
		Expect(dev.NStates()).To(Equal(9))
		Expect(dev.LevelCounts()).To(Equal([]int{3, 3}))
	})

	It("rejects mismatched parallel lists", func() {
		_, err := device.NewTransmon([]float64{4.8, 4.9}, []float64{0.3}, nil, nil, 3)
		Expect(err).To(HaveOccurred())
	})

	It("rejects level counts below two", func() {
		_, err := device.NewTransmon([]float64{4.8}, []float64{0.3}, nil, nil, 1)
		Expect(err).To(HaveOccurred())
	})

	It("rejects out-of-range coupling indices", func() {
		_, err := device.NewTransmon([]float64{4.8, 4.9}, []float64{0.3, 0.3},
			[]device.Coupling{{Pair: device.NewQuple(0, 2), G: 0.02}}, nil, 3)
		Expect(err).To(HaveOccurred())
	})

	It("rejects coupling literals that bypass quple canonicalization", func() {
		_, err := device.NewTransmon([]float64{4.8, 4.9}, []float64{0.3, 0.3},
			[]device.Coupling{{Pair: device.Quple{P: 5, Q: 1}, G: 0.02}}, nil, 3)
		Expect(err).To(HaveOccurred())

		_, err = device.NewTransmon([]float64{4.8, 4.9}, []float64{0.3, 0.3},
			[]device.Coupling{{Pair: device.Quple{P: 0, Q: -1}, G: 0.02}}, nil, 3)
		Expect(err).To(HaveOccurred())
	})

	It("rejects self-couplings", func() {
		_, err := device.NewTransmon([]float64{4.8, 4.9}, []float64{0.3, 0.3},
			[]device.Coupling{{Pair: device.NewQuple(1, 1), G: 0.02}}, nil, 3)
		Expect(err).To(HaveOccurred())
	})

	It("rejects channels targeting missing qubits", func() {
		_, err := device.NewTransmon([]float64{4.8}, []float64{0.3}, nil,
			[]device.Channel{{Qubit: 1, Freq: 4.8, Signal: signal.NewConstant(1, 0)}}, 3)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Parameter binding", func() {
	It("counts signal parameters plus one frequency per channel", func() {
		dev, _ := pairDevice()
		Expect(dev.Count()).To(Equal(2 + 2 + 2))
	})

	It("annotates names with channel and qubit", func() {
		dev, _ := pairDevice()
		names := dev.Names()
		Expect(names).To(HaveLen(6))
		Expect(names[0]).To(ContainSubstring("ch0[q0]"))
		Expect(names[4]).To(ContainSubstring("freq"))
	})

	It("round-trips values through bind", func() {
		dev, _ := pairDevice()
		want := []float64{0.1, 0.2, 0.3, 0.4, 5.0, 5.1}
		Expect(dev.Bind(want)).To(Succeed())
		Expect(dev.Values()).To(Equal(want))

		// The channel signal saw its slice of the vector.
		Expect(dev.Channels()[0].Signal.Values()).To(Equal([]float64{0.1, 0.2}))
		Expect(dev.Channels()[1].Freq).To(Equal(5.1))
	})

	It("rejects vectors of the wrong length", func() {
		dev, _ := pairDevice()
		Expect(dev.Bind([]float64{1, 2})).To(MatchError(quantum.ErrBadParameterCount))
	})

	It("restores earlier channels when a later signal rejects its slice", func() {
		dev, err := device.NewTransmon([]float64{4.8, 4.9}, []float64{0.3, 0.3}, nil,
			[]device.Channel{
				{Qubit: 0, Freq: 4.8, Signal: signal.NewConstant(0.02, 0)},
				{Qubit: 1, Freq: 4.9, Signal: rejectingSignal{signal.NewConstant(0.02, 0.01)}},
			}, 3)
		Expect(err).NotTo(HaveOccurred())

		before := dev.Values()
		Expect(dev.Bind([]float64{1, 2, 3, 4, 5, 6})).NotTo(Succeed())
		Expect(dev.Values()).To(Equal(before))
	})
})

var _ = Describe("Unimplemented", func() {
	It("panics with ErrNotImplemented for omitted capabilities", func() {
		var partial device.Unimplemented
		Expect(func() { partial.Couplings() }).To(PanicWith(quantum.ErrNotImplemented))
	})
})
