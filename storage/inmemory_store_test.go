package storage_test

import (
	"context"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/luma/eosc/protocol"
	"github.com/luma/eosc/records"
	"github.com/luma/eosc/storage"
)

var _ = Describe("storage / InmemoryStore", func() {
	var (
		store *storage.InmemoryStore
		ctx   context.Context
	)

	BeforeEach(func() {
		store = storage.NewInmemoryStore()
		ctx = context.Background()
	})

	AfterEach(func() {
		store.Close()
	})

	Describe("Close()", func() {
		It("does not panic when closed twice", func() {
			Expect(func() { store.Close() }).NotTo(Panic())
			Expect(func() { store.Close() }).NotTo(Panic())
		})

		It("closes update channels", func() {
			updates := store.ListenToUpdates()
			store.Close()

			Eventually(updates).Should(BeClosed())
		})
	})

	It("an empty inmemory store equals {}", func() {
		value, err := store.Backup()
		Expect(err).To(Succeed())
		Expect(string(value)).To(Equal(`{}`))
	})

	Describe("Set() / Get()", func() {
		It("can read a key that is written", func() {
			Expect(store.Set(ctx, "foo", "bar")).To(Succeed())

			Expect(store.Get(ctx, "foo")).To(Equal([]byte(`"bar"`)))

			value, err := store.Backup()
			Expect(err).To(Succeed())
			Expect(string(value)).To(Equal(`{"foo":"bar"}`))
		})

		It("returns nil for missing paths", func() {
			Expect(store.Get(ctx, "nope")).To(BeNil())
		})

		It("keeps fractional target numbers in one segment", func() {
			Expect(store.Set(ctx, storage.Key("cue", "1", "2.5"), "Sunrise")).To(Succeed())

			value, err := store.Backup()
			Expect(err).To(Succeed())
			Expect(string(value)).To(Equal(`{"cue":{"1":{"2.5":"Sunrise"}}}`))

			Expect(store.Get(ctx, storage.Key("cue", "1", "2.5"))).To(Equal([]byte(`"Sunrise"`)))
		})

		It("reads nested paths", func() {
			Expect(store.Set(ctx, "group.1", map[string]interface{}{"label": "Front"})).To(Succeed())
			Expect(store.Set(ctx, "group.2", map[string]interface{}{"label": "All"})).To(Succeed())

			Expect(store.Get(ctx, "group.2.label")).To(Equal([]byte(`"All"`)))
		})

		It("sends on the update channel when values are set", func() {
			updateChan := store.ListenToUpdates()
			Expect(store.Set(ctx, "foo", "bar")).To(Succeed())

			update, ok := <-updateChan
			Expect(ok).To(BeTrue())
			Expect(update).To(Equal(&storage.Update{
				Key:   "foo",
				Value: []byte(`"bar"`),
			}))
		})
	})

	Describe("Restore()", func() {
		It("replaces the document", func() {
			Expect(store.Restore([]byte(`{"a":1}`))).To(Succeed())
			Expect(store.Get(ctx, "a")).To(Equal([]byte(`1`)))
		})

		It("rejects invalid JSON", func() {
			Expect(store.Restore([]byte(`{"a":`))).To(MatchError(storage.ErrInvalidDocument))
		})
	})

	Describe("RecordKey()", func() {
		It("nests cues under their list", func() {
			cue := &records.Cue{
				Record:  records.Record{TargetType: records.TypeCue, TargetNumber: 2.5},
				CueList: 1,
			}
			Expect(storage.RecordKey(cue)).To(Equal(`cue.1.2\.5`))
		})

		It("keys other record targets by number", func() {
			group := &records.Group{Record: records.Record{TargetType: records.TypeGroup, TargetNumber: protocol.TargetNumber(3)}}
			Expect(storage.RecordKey(group)).To(Equal("group.3"))
		})
	})
})
