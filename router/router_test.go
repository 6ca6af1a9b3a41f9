package router_test

import (
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/luma/eosc/protocol"
	"github.com/luma/eosc/router"
)

type call struct {
	name   string
	params router.Params
}

var _ = Describe("Router", func() {
	var (
		r     *router.Router
		calls []call
	)

	record := func(name string) router.Handler {
		return func(msg *protocol.Message, params router.Params) {
			calls = append(calls, call{name: name, params: params})
		}
	}

	route := func(address string) bool {
		return r.Route(protocol.NewMessage(address))
	}

	BeforeEach(func() {
		r = router.New()
		calls = nil
	})

	Describe("precedence", func() {
		It("prefers a literal over a parameter in either registration order", func() {
			for _, literalFirst := range []bool{true, false} {
				r = router.New()
				calls = nil

				if literalFirst {
					r.MustOn("/a/lit/b", record("literal")).MustOn("/a/{x}/b", record("param"))
				} else {
					r.MustOn("/a/{x}/b", record("param")).MustOn("/a/lit/b", record("literal"))
				}

				Expect(route("/a/lit/b")).To(BeTrue())
				Expect(route("/a/other/b")).To(BeTrue())

				Expect(calls).To(Equal([]call{
					{name: "literal", params: router.Params{}},
					{name: "param", params: router.Params{"x": "other"}},
				}))
			}
		})

		It("uses a wildcard only when nothing more specific matches", func() {
			r.MustOn("/a/*", record("wildcard")).MustOn("/a/b/c", record("literal"))

			Expect(route("/a/b/c")).To(BeTrue())
			Expect(route("/a/anything/here")).To(BeTrue())
			Expect(route("/a/b/d")).To(BeTrue())

			Expect(calls).To(Equal([]call{
				{name: "literal", params: router.Params{}},
				{name: "wildcard", params: router.Params{}},
				{name: "wildcard", params: router.Params{}},
			}))
		})

		It("prefers the deepest wildcard", func() {
			r.MustOn("/a/*", record("shallow")).MustOn("/a/b/*", record("deep"))

			route("/a/b/x")
			route("/a/c/x")

			Expect(calls).To(Equal([]call{
				{name: "deep", params: router.Params{}},
				{name: "shallow", params: router.Params{}},
			}))
		})

		It("falls back to the wildcard when the full match has no handler", func() {
			r.MustOn("/eos/*", record("wildcard")).MustOn("/eos/out/get/version", record("version"))

			Expect(route("/eos/out/get")).To(BeTrue())
			Expect(calls).To(Equal([]call{{name: "wildcard", params: router.Params{}}}))
		})

		It("passes parameters bound before the wildcard", func() {
			r.MustOn("/eos/out/{kind}/*", record("wildcard"))

			route("/eos/out/notify/cue/1")

			Expect(calls).To(Equal([]call{
				{name: "wildcard", params: router.Params{"kind": "notify"}},
			}))
		})

		It("does not pass parameters bound after the wildcard", func() {
			r.MustOn("/a/*", record("wildcard")).MustOn("/a/{x}/b", record("param"))

			route("/a/other/c")

			Expect(calls).To(Equal([]call{{name: "wildcard", params: router.Params{}}}))
		})

		It("needs at least one segment for a wildcard", func() {
			r.MustOn("/a/*", record("wildcard"))

			Expect(route("/a")).To(BeFalse())
			Expect(calls).To(BeEmpty())
		})

		It("routes everything to a root wildcard", func() {
			r.MustOn("/*", record("all"))

			Expect(route("/anything")).To(BeTrue())
			Expect(route("/any/thing/else")).To(BeTrue())
			Expect(calls).To(HaveLen(2))
		})
	})

	It("reports unmatched messages", func() {
		r.MustOn("/a/b", record("literal"))

		Expect(route("/a/c")).To(BeFalse())
		Expect(route("/a/b/c")).To(BeFalse())
		Expect(calls).To(BeEmpty())
	})

	It("invokes exactly one handler per message", func() {
		r.MustOn("/*", record("root")).MustOn("/a/*", record("a")).MustOn("/a/{x}", record("param"))

		route("/a/b")

		Expect(calls).To(HaveLen(1))
		Expect(calls[0].name).To(Equal("param"))
	})

	Describe("registration", func() {
		It("refuses duplicate patterns", func() {
			Expect(r.On("/a/{x}", record("one"))).To(Succeed())
			Expect(errors.Is(r.On("/a/{x}", record("two")), router.ErrDuplicateRoute)).To(BeTrue())

			Expect(r.On("/a/*", record("one"))).To(Succeed())
			Expect(errors.Is(r.On("/a/*", record("two")), router.ErrDuplicateRoute)).To(BeTrue())
		})

		It("refuses a wildcard that is not the last segment", func() {
			Expect(errors.Is(r.On("/a/*/b", record("one")), router.ErrWildcardNotLast)).To(BeTrue())
		})

		It("refuses a second parameter name at the same position", func() {
			Expect(r.On("/a/{x}/b", record("one"))).To(Succeed())
			Expect(errors.Is(r.On("/a/{y}/c", record("two")), router.ErrParamConflict)).To(BeTrue())
		})

		It("shares a parameter position that uses the same name", func() {
			Expect(r.On("/a/{x}/b", record("b"))).To(Succeed())
			Expect(r.On("/a/{x}/c", record("c"))).To(Succeed())

			route("/a/1/c")
			Expect(calls).To(Equal([]call{{name: "c", params: router.Params{"x": "1"}}}))
		})

		It("refuses patterns without a leading slash", func() {
			Expect(errors.Is(r.On("a/b", record("one")), router.ErrInvalidPattern)).To(BeTrue())
		})

		It("refuses a nil handler and leaves the pattern free", func() {
			Expect(errors.Is(r.On("/a/b", nil), router.ErrNilHandler)).To(BeTrue())
			Expect(route("/a/b")).To(BeFalse())

			Expect(r.On("/a/b", record("one"))).To(Succeed())
			Expect(route("/a/b")).To(BeTrue())
			Expect(calls).To(Equal([]call{{name: "one", params: router.Params{}}}))
		})

		It("panics from MustOn", func() {
			r.MustOn("/a", record("one"))
			Expect(func() { r.MustOn("/a", record("two")) }).To(Panic())
		})
	})

	It("lets handlers register routes while routing", func() {
		r.MustOn("/register", func(msg *protocol.Message, params router.Params) {
			r.MustOn("/late", record("late"))
		})

		Expect(route("/register")).To(BeTrue())
		Expect(route("/late")).To(BeTrue())
		Expect(calls).To(Equal([]call{{name: "late", params: router.Params{}}}))
	})
})
