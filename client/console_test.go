package client_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/luma/eosc/client"
	"github.com/luma/eosc/internal/fakeconsole"
	"github.com/luma/eosc/protocol"
	"github.com/luma/eosc/records"
	"github.com/luma/eosc/request"
)

var _ = Describe("Console", func() {
	var (
		fake    *fakeconsole.Console
		console *client.Console
		options fakeconsole.Options
		ctx     context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		options = fakeconsole.Options{}
	})

	JustBeforeEach(func() {
		fake = startFakeConsole(options)
		console = newClient(fake)
	})

	AfterEach(func() {
		console.Disconnect()
		Expect(fake.Close()).To(Succeed())
	})

	Context("before connecting", func() {
		It("is disconnected", func() {
			Expect(console.State()).To(Equal(client.Disconnected))
			Expect(console.Version()).To(BeEmpty())
		})

		It("refuses requests", func() {
			_, err := console.Groups.Count(ctx)
			Expect(err).To(MatchError(client.ErrNotConnected))

			Expect(console.SendMessage(ctx, "/eos/key/go")).To(MatchError(client.ErrNotConnected))
			Expect(console.Disconnect()).To(MatchError(client.ErrNotConnected))
		})
	})

	Context("when connected", func() {
		JustBeforeEach(func() {
			Expect(console.Connect(ctx)).To(Succeed())
		})

		It("reads the version and subscribes", func() {
			Expect(console.State()).To(Equal(client.Connected))
			Expect(console.Version()).To(Equal(fakeconsole.DefaultVersion))
			Eventually(fake.Subscribed).Should(BeTrue())

			Expect(next[client.ConnectionStateChanged](console).State).To(Equal(client.Connecting))
			Expect(next[client.ConnectionStateChanged](console).State).To(Equal(client.Connected))
		})

		It("refuses to connect twice", func() {
			Expect(console.Connect(ctx)).To(MatchError(client.ErrAlreadyConnected))
		})

		It("reads every record target of a type", func() {
			progress := make([]int, 0)

			groups, err := console.Groups.GetAll(ctx, func(complete, total int) {
				Expect(total).To(Equal(2))
				progress = append(progress, complete)
			})
			Expect(err).To(Succeed())

			Expect(groups).To(HaveLen(2))
			Expect(groups[0].Label).To(Equal("Front"))
			Expect(groups[1].Channels).To(Equal([]protocol.TargetNumber{1, 2, 3}))
			Expect(progress).To(Equal([]int{1, 2}))
		})

		It("reads record targets of a type picked at runtime", func() {
			module, err := console.Records(records.TypeSnapshot)
			Expect(err).To(Succeed())

			snapshots, err := module.GetAll(ctx, nil)
			Expect(err).To(Succeed())
			Expect(snapshots).To(HaveLen(1))
			Expect(snapshots[0].Base().Label).To(Equal("Programming"))

			patch, err := console.Records(records.TypePatch)
			Expect(err).To(Succeed())

			missing, err := patch.Get(ctx, 77)
			Expect(err).To(Succeed())
			Expect(missing).To(BeNil())

			_, err = console.Records(records.TypeCue)
			Expect(err).To(MatchError(client.ErrNeedsCueList))
		})

		It("reads a single record target", func() {
			macro, err := console.Macros.Get(ctx, 1)
			Expect(err).To(Succeed())
			Expect(macro.UID).To(Equal("m-1"))
			Expect(macro.Command).To(Equal("Group 1 At Full Enter"))
		})

		It("returns nil for missing record targets", func() {
			group, err := console.Groups.Get(ctx, 99)
			Expect(err).To(Succeed())
			Expect(group).To(BeNil())

			// The queue is still in step
			count, err := console.Groups.Count(ctx)
			Expect(err).To(Succeed())
			Expect(count).To(Equal(2))
		})

		It("reads the cues of a list", func() {
			cues, err := console.Cues.GetAll(ctx, 1, nil)
			Expect(err).To(Succeed())
			Expect(cues).To(HaveLen(3))
			Expect(cues[2].TargetNumber).To(Equal(protocol.TargetNumber(2.5)))

			cue, err := console.Cues.Get(ctx, 1, 2.5)
			Expect(err).To(Succeed())
			Expect(cue.Label).To(Equal("Sunrise"))
			Expect(cue.CueList).To(Equal(protocol.TargetNumber(1)))
			Expect(cue.UpTimeDurationMs).To(Equal(10000))
		})

		It("groups the patch by channel", func() {
			channels, err := console.Channels.GetAll(ctx, nil)
			Expect(err).To(Succeed())
			Expect(channels).To(HaveLen(3))
			Expect(channels[2].Parts).To(HaveLen(2))

			channel, err := console.Channels.Get(ctx, 3)
			Expect(err).To(Succeed())
			Expect(channel.TargetNumber).To(Equal(protocol.TargetNumber(3)))
			Expect(channel.Parts[1].Label).To(Equal("Wash Fan"))
			Expect(channel.Parts[1].PartNumber).To(Equal(2))

			missing, err := console.Channels.Get(ctx, 42)
			Expect(err).To(Succeed())
			Expect(missing).To(BeNil())
		})

		It("serves requests made at the same time in order", func() {
			done := make(chan error, 2)

			go func() {
				_, err := console.CueLists.GetAll(ctx, nil)
				done <- err
			}()

			go func() {
				_, err := console.Snapshots.GetAll(ctx, nil)
				done <- err
			}()

			Eventually(done).Should(Receive(Succeed()))
			Eventually(done).Should(Receive(Succeed()))
		})

		It("refuses messages outside the /eos/ namespace and requests", func() {
			Expect(console.SendMessage(ctx, "/hello")).To(MatchError(client.ErrInvalidAddress))
			Expect(console.SendMessage(ctx, "/eos/get/version")).To(MatchError(client.ErrReservedAddress))
		})

		It("types commands", func() {
			Expect(console.ExecuteCommand(ctx, "Chan %1 At %2", []string{"5", "50"}, true)).To(Succeed())

			Expect(next[client.CommandLine](console).CommandLine).To(Equal("Chan 5 At 50"))
			Expect(next[client.UserCommandLine](console)).To(Equal(client.UserCommandLine{UserID: 1, CommandLine: "Chan 5 At 50"}))
		})

		It("changes user", func() {
			Expect(console.ChangeUser(ctx, 3)).To(Succeed())
			Expect(next[client.UserChanged](console).UserID).To(Equal(3))
		})

		It("fires macros, cues and subs", func() {
			Expect(console.Macros.Fire(ctx, 1)).To(Succeed())
			Expect(next[client.MacroFired](console).Macro).To(Equal(protocol.TargetNumber(1)))

			Expect(console.Cues.Fire(ctx, 1, 2)).To(Succeed())
			Expect(next[client.CueFired](console)).To(Equal(client.CueFired{
				Cue:   client.CueIdentifier{CueList: 1, CueNumber: 2},
				Label: "Opening",
			}))
			Expect(next[client.CueChanged](console).Cue).To(Equal(&client.CueIdentifier{CueList: 1, CueNumber: 2}))

			Expect(console.Subs.Bump(ctx, 4, true)).To(Succeed())
			Expect(next[client.SubBumped](console)).To(Equal(client.SubBumped{Sub: 4, Bump: true}))
		})

		It("configures banks", func() {
			Expect(console.FaderBanks.Create(ctx, 1, client.FaderBankConfig{FaderCount: 10, Page: 2})).To(Succeed())
			Expect(console.FaderBanks.PageUp(ctx, 1, 1)).To(Succeed())
			Expect(console.CueListBanks.Create(ctx, 2, client.CueListBankConfig{CueList: 1, PrevCueCount: 2, PendingCueCount: 5})).To(Succeed())
			Expect(console.DirectSelectsBanks.Create(ctx, 3, client.DirectSelectsBankConfig{
				Target:      client.DirectSelectsGroups,
				ButtonCount: 20,
				Flexi:       true,
			})).To(Succeed())
			Expect(console.DirectSelectsBanks.Press(ctx, 3, 4)).To(Succeed())

			Eventually(func() []string {
				addresses := make([]string, 0)
				for _, msg := range fake.Received() {
					addresses = append(addresses, msg.Address)
				}
				return addresses
			}).Should(ContainElements(
				"/eos/fader/1/config/2/10",
				"/eos/fader/1/page/-1",
				"/eos/cuelist/2/config/1/2/5",
				"/eos/ds/3/group/flexi/20",
				"/eos/ds/3/4",
			))
		})

		It("decodes console output", func() {
			Expect(fake.Emit("/eos/out/notify/group", 0, "1-2", "5")).To(Succeed())
			Expect(next[client.RecordTargetChanged](console)).To(Equal(client.RecordTargetChanged{
				TargetType:    records.TypeGroup,
				TargetNumbers: []protocol.TargetNumber{1, 2, 5},
			}))

			Expect(fake.Emit("/eos/out/active/wheel/2", "Pan  [ 45 ]", 2, float32(45))).To(Succeed())
			Expect(next[client.ActiveWheel](console)).To(Equal(client.ActiveWheel{
				Index: 1,
				Wheel: &client.Wheel{Category: client.CategoryFocus, Parameter: "Pan", Value: 45},
			}))

			Expect(fake.Emit("/eos/out/pending/cue")).To(Succeed())
			Expect(next[client.CueChanged](console)).To(Equal(client.CueChanged{Slot: client.SlotPending}))

			Expect(fake.Emit("/eos/out/active/chan", "1-3,7 @ 50")).To(Succeed())
			Expect(next[client.ActiveChannels](console).Channels).To(Equal([]protocol.TargetNumber{1, 2, 3, 7}))
		})

		It("passes messages outside the /eos/ namespace through", func() {
			Expect(fake.Emit("/hello", "world")).To(Succeed())

			raw := next[client.RawMessage](console)
			Expect(raw.Message.Address).To(Equal("/hello"))
		})

		It("disconnects", func() {
			Expect(console.Disconnect()).To(Succeed())
			Expect(console.State()).To(Equal(client.Disconnected))

			_, err := console.Groups.Count(ctx)
			Expect(err).To(MatchError(client.ErrNotConnected))
		})

		It("fails waiting requests when the console goes away", func() {
			// Nothing answers this address
			p, err := console.Request(ctx, request.Descriptor{
				Message:       protocol.NewMessage("/eos/get/nothing/at/all/here"),
				ResponseCount: 1,
			})
			Expect(err).To(Succeed())

			Expect(fake.Close()).To(Succeed())

			Eventually(p.Done(), 2*time.Second).Should(BeClosed())
			_, err = p.Wait(ctx)
			Expect(err).To(MatchError(client.ErrDisconnected))

			Eventually(console.State).Should(Equal(client.Disconnected))
		})
	})

	Context("when the console splits long messages", func() {
		BeforeEach(func() {
			options.ListChunk = 8
		})

		It("joins them back together", func() {
			Expect(console.Connect(ctx)).To(Succeed())

			cue, err := console.Cues.Get(ctx, 1, 1)
			Expect(err).To(Succeed())
			Expect(cue.UID).To(Equal("c-1"))
			Expect(cue.UpTimeDurationMs).To(Equal(5000))
		})
	})
})
