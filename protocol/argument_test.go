package protocol_test

import (
	"errors"
	"strconv"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/luma/eosc/protocol"
)

func itoa(i int) string {
	return strconv.Itoa(i)
}

var _ = Describe("Argument", func() {
	Describe("NewArgument()", func() {
		It("picks the type tag from the Go type", func() {
			cases := map[interface{}]protocol.Type{
				true:                       protocol.TypeTrue,
				false:                      protocol.TypeFalse,
				1:                          protocol.TypeInt32,
				int64(1):                   protocol.TypeInt64,
				float32(1):                 protocol.TypeFloat32,
				1.5:                        protocol.TypeFloat64,
				"label":                    protocol.TypeString,
				protocol.TargetNumber(1.5): protocol.TypeString,
				protocol.Bang{}:            protocol.TypeBang,
			}

			for value, tag := range cases {
				arg, err := protocol.NewArgument(value)
				Expect(err).To(Succeed())
				Expect(arg.Type).To(Equal(tag), "value %v", value)
			}
		})

		It("refuses unsupported values", func() {
			_, err := protocol.NewArgument(struct{}{})
			Expect(errors.Is(err, protocol.ErrTypeMismatch)).To(BeTrue())
		})
	})

	Describe("accessors", func() {
		It("returns ErrTypeMismatch for the wrong type", func() {
			_, err := protocol.String("one").AsInt()
			Expect(errors.Is(err, protocol.ErrTypeMismatch)).To(BeTrue())

			_, err = protocol.Int(1).AsString()
			Expect(errors.Is(err, protocol.ErrTypeMismatch)).To(BeTrue())

			_, err = protocol.Nil().AsBool()
			Expect(errors.Is(err, protocol.ErrTypeMismatch)).To(BeTrue())
		})

		It("treats negative optional integers as unset", func() {
			v, ok, err := protocol.Int(-1).AsOptionalInt()
			Expect(err).To(Succeed())
			Expect(ok).To(BeFalse())
			Expect(v).To(Equal(-1))

			v, ok, err = protocol.Int(3).AsOptionalInt()
			Expect(err).To(Succeed())
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(3))
		})

		It("reads floats from integers", func() {
			Expect(protocol.Int(3).AsFloat()).To(Equal(3.0))
		})

		It("recognises nil", func() {
			Expect(protocol.Nil().IsNil()).To(BeTrue())
			Expect(protocol.Int(0).IsNil()).To(BeFalse())
		})
	})

	Describe("target numbers", func() {
		It("reads numbers and numeric strings", func() {
			Expect(protocol.Int(12).AsTargetNumber()).To(Equal(protocol.TargetNumber(12)))
			Expect(protocol.String("1.5").AsTargetNumber()).To(Equal(protocol.TargetNumber(1.5)))

			_, err := protocol.String("one").AsTargetNumber()
			Expect(errors.Is(err, protocol.ErrTypeMismatch)).To(BeTrue())
		})

		It("expands ranges inclusively", func() {
			Expect(protocol.String("3-5").AsTargetNumberRange()).To(Equal([]protocol.TargetNumber{3, 4, 5}))
			Expect(protocol.String("7").AsTargetNumberRange()).To(Equal([]protocol.TargetNumber{7}))
			Expect(protocol.Int(9).AsTargetNumberRange()).To(Equal([]protocol.TargetNumber{9}))
		})

		It("rejects malformed ranges", func() {
			for _, s := range []string{"5-3", "1-2-3", "a-b", ""} {
				_, err := protocol.ParseTargetNumberRange(s)
				Expect(errors.Is(err, protocol.ErrMalformedTargetNumber)).To(BeTrue(), s)
			}
		})

		It("expands argument lists in order", func() {
			args := []protocol.Argument{protocol.String("1-3"), protocol.Int(2), protocol.String("10")}

			Expect(protocol.ExpandTargetNumbers(args, false)).To(Equal([]protocol.TargetNumber{1, 2, 3, 2, 10}))
			Expect(protocol.ExpandTargetNumbers(args, true)).To(Equal([]protocol.TargetNumber{1, 2, 3, 10}))
		})

		It("formats without trailing zeros", func() {
			Expect(protocol.TargetNumber(1).String()).To(Equal("1"))
			Expect(protocol.TargetNumber(1.5).String()).To(Equal("1.5"))
		})
	})
})
