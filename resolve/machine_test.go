package resolve

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

type fetchCall struct {
	ref     Reference
	answers []Answer
}

// scriptedFetcher answers from gates when one exists for the reference, otherwise from script.
type scriptedFetcher struct {
	mu     sync.Mutex
	calls  []fetchCall
	gates  map[Reference]chan Outcome
	script func(n int, ref Reference, answers []Answer) Outcome
}

func (f *scriptedFetcher) Fetch(_ context.Context, ref Reference, answers []Answer) Outcome {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{ref: ref, answers: answers})
	n := len(f.calls)
	gate := f.gates[ref]
	f.mu.Unlock()

	if gate != nil {
		return <-gate
	}

	return f.script(n, ref, answers)
}

func (f *scriptedFetcher) recorded() []fetchCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]fetchCall(nil), f.calls...)
}

func always(outcome Outcome) func(int, Reference, []Answer) Outcome {
	return func(int, Reference, []Answer) Outcome {
		return outcome
	}
}

// recorder collects every snapshot a machine publishes.
type recorder struct {
	mu        sync.Mutex
	snapshots []Snapshot
}

func (r *recorder) record(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshots = append(r.snapshots, s)
}

func (r *recorder) states() []State {
	r.mu.Lock()
	defer r.mu.Unlock()

	states := make([]State, len(r.snapshots))
	for i, s := range r.snapshots {
		states[i] = s.State
	}

	return states
}

var catChallenge = &Challenge{
	Prompts: []string{"cat"},
	Options: []Option{{ID: "a", ImageID: "i1", Index: 0}, {ID: "b", ImageID: "i2", Index: 1}},
}

func TestMachineOutcomes(t *testing.T) {
	defer goleak.VerifyNone(t)

	Convey("Given an idle machine", t, func() {
		fetcher := &scriptedFetcher{}
		rec := &recorder{}
		m := NewMachine(fetcher, OnChange(rec.record))

		So(m.Snapshot().State, ShouldEqual, Idle)

		Convey("An empty reference should be rejected", func() {
			So(m.RequestResolution(""), ShouldEqual, ErrEmptyReference)
			So(fetcher.recorded(), ShouldBeEmpty)
		})

		Convey("An error status should end in Failed", func() {
			fetcher.script = always(&Failure{Reason: "Got HTTP status code 503 from server. Error: down."})

			So(m.RequestResolution("ep1"), ShouldBeNil)
			m.Wait()

			snapshot := m.Snapshot()
			So(snapshot.State, ShouldEqual, Failed)
			So(snapshot.Outcome, ShouldResemble, &Failure{Reason: "Got HTTP status code 503 from server. Error: down."})
			So(rec.states(), ShouldResemble, []State{Loading, Failed})

			Convey("And retrying should start a new session for the same episode", func() {
				fetcher.script = always(&HostUnsupported{HostURL: "https://elsewhere"})

				So(m.Retry(), ShouldBeNil)
				m.Wait()

				So(m.Snapshot().State, ShouldEqual, Unsupported)
				So(m.Snapshot().Session, ShouldNotEqual, snapshot.Session)
				So(fetcher.recorded(), ShouldHaveLength, 2)
				So(fetcher.recorded()[1].ref, ShouldEqual, Reference("ep1"))
			})
		})

		Convey("A challenge should be answered before videos arrive", func() {
			fetcher.script = func(n int, _ Reference, _ []Answer) Outcome {
				if n == 1 {
					return &ChallengeRequired{Challenge: catChallenge}
				}
				return &VideoReady{Options: []VideoOption{{Title: "1080p", URL: "u2", Direct: true}}}
			}

			So(m.RequestResolution("ep1"), ShouldBeNil)
			m.Wait()

			snapshot := m.Snapshot()
			So(snapshot.State, ShouldEqual, Challenging)
			prompt, ok := snapshot.Prompt()
			So(ok, ShouldBeTrue)
			So(prompt, ShouldEqual, "cat")

			Convey("Selecting an option that was not offered should be rejected", func() {
				So(m.Select("zzz"), ShouldEqual, ErrUnknownOption)
				So(m.Snapshot().Selected, ShouldBeEmpty)
			})

			Convey("Selecting the last answer should submit the answers", func() {
				So(m.Select("a"), ShouldBeNil)
				m.Wait()

				calls := fetcher.recorded()
				So(calls, ShouldHaveLength, 2)
				So(calls[0].answers, ShouldBeNil)
				So(calls[1].answers, ShouldResemble, []Answer{{OptionID: "a", PromptText: "cat"}})

				So(m.Snapshot().State, ShouldEqual, Ready)
				So(rec.states(), ShouldResemble, []State{Loading, Challenging, Loading, Ready})
			})
		})

		Convey("Selecting without a challenge should be rejected", func() {
			So(m.Select("a"), ShouldEqual, ErrNoChallenge)
			So(m.ClearAnswers(), ShouldEqual, ErrNoChallenge)
		})

		Convey("Retrying before anything was requested should be rejected", func() {
			So(m.Retry(), ShouldEqual, ErrNothingToRetry)
		})

		Convey("A nil outcome should be treated as an empty response", func() {
			fetcher.script = always(nil)

			So(m.RequestResolution("ep1"), ShouldBeNil)
			m.Wait()

			So(m.Snapshot().Outcome, ShouldResemble, &Failure{Reason: "empty response"})
		})
	})
}

func TestMachineEmptyChallenge(t *testing.T) {
	defer goleak.VerifyNone(t)

	Convey("Given a host that sends a challenge without prompts", t, func() {
		fetcher := &scriptedFetcher{}
		m := NewMachine(fetcher)

		Convey("The empty answer set should be submitted on the user's behalf", func() {
			fetcher.script = func(n int, _ Reference, _ []Answer) Outcome {
				if n == 1 {
					return &ChallengeRequired{Challenge: &Challenge{}}
				}
				return &HostUnsupported{HostURL: "https://elsewhere"}
			}

			So(m.RequestResolution("ep1"), ShouldBeNil)
			m.Wait()

			calls := fetcher.recorded()
			So(calls, ShouldHaveLength, 2)
			So(calls[1].answers, ShouldNotBeNil)
			So(calls[1].answers, ShouldBeEmpty)
			So(m.Snapshot().State, ShouldEqual, Unsupported)
		})

		Convey("A host that never stops should eventually fail", func() {
			fetcher.script = always(&ChallengeRequired{Challenge: &Challenge{}})

			So(m.RequestResolution("ep1"), ShouldBeNil)
			m.Wait()

			So(fetcher.recorded(), ShouldHaveLength, DefaultEmptyChallengeLimit+1)
			So(m.Snapshot().State, ShouldEqual, Failed)
		})

		Convey("A lower limit should fail sooner", func() {
			fetcher.script = always(&ChallengeRequired{Challenge: &Challenge{}})
			m := NewMachine(fetcher, WithEmptyChallengeLimit(1))

			So(m.RequestResolution("ep1"), ShouldBeNil)
			m.Wait()

			So(fetcher.recorded(), ShouldHaveLength, 2)
			So(m.Snapshot().State, ShouldEqual, Failed)
		})

		Convey("A negative limit should keep submitting until the host answers", func() {
			fetcher.script = func(n int, _ Reference, _ []Answer) Outcome {
				if n <= 2*DefaultEmptyChallengeLimit {
					return &ChallengeRequired{Challenge: &Challenge{}}
				}
				return &VideoReady{Options: []VideoOption{{Title: "720p", URL: "https://v/720"}}}
			}
			m := NewMachine(fetcher, WithEmptyChallengeLimit(-1))

			So(m.RequestResolution("ep1"), ShouldBeNil)
			m.Wait()

			So(fetcher.recorded(), ShouldHaveLength, 2*DefaultEmptyChallengeLimit+1)
			So(m.Snapshot().State, ShouldEqual, Ready)
		})
	})
}

func TestMachineSessions(t *testing.T) {
	defer goleak.VerifyNone(t)

	Convey("Given a machine whose fetches wait to be released", t, func() {
		fetcher := &scriptedFetcher{gates: map[Reference]chan Outcome{
			"A": make(chan Outcome, 1),
			"B": make(chan Outcome, 1),
		}}
		rec := &recorder{}
		m := NewMachine(fetcher, OnChange(rec.record))

		So(m.RequestResolution("A"), ShouldBeNil)

		Convey("Requesting the same episode again should not fetch twice", func() {
			So(m.RequestResolution("A"), ShouldBeNil)
			fetcher.gates["A"] <- &HostUnsupported{HostURL: "https://a"}
			m.Wait()

			So(fetcher.recorded(), ShouldHaveLength, 1)
			So(m.Snapshot().State, ShouldEqual, Unsupported)
		})

		Convey("A response for a replaced session should be dropped", func() {
			first := m.Snapshot().Session
			So(m.RequestResolution("B"), ShouldBeNil)
			So(m.Snapshot().Session, ShouldNotEqual, first)

			fetcher.gates["A"] <- &VideoReady{Options: []VideoOption{{Title: "720p", URL: "a"}}}
			fetcher.gates["B"] <- &HostUnsupported{HostURL: "https://b"}
			m.Wait()

			snapshot := m.Snapshot()
			So(snapshot.Reference, ShouldEqual, Reference("B"))
			So(snapshot.Outcome, ShouldResemble, &HostUnsupported{HostURL: "https://b"})
			So(rec.states(), ShouldNotContain, Ready)
		})

		Convey("Closing while loading should drop the late response", func() {
			m.Close()
			So(m.Snapshot().State, ShouldEqual, Idle)

			fetcher.gates["A"] <- &HostUnsupported{HostURL: "https://a"}
			m.Wait()

			snapshot := m.Snapshot()
			So(snapshot.State, ShouldEqual, Idle)
			So(snapshot.Outcome, ShouldBeNil)
			So(snapshot.Session, ShouldBeEmpty)

			Convey("And closing again should do nothing", func() {
				before := len(rec.states())
				m.Close()
				So(rec.states(), ShouldHaveLength, before)
				So(m.Snapshot().State, ShouldEqual, Idle)
			})
		})
	})
}

func TestMachineRepeatedSelection(t *testing.T) {
	defer goleak.VerifyNone(t)

	Convey("Given a two prompt challenge", t, func() {
		fetcher := &scriptedFetcher{script: always(&ChallengeRequired{Challenge: &Challenge{
			Prompts: []string{"cat", "dog"},
			Options: []Option{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		}})}
		m := NewMachine(fetcher)

		So(m.RequestResolution("ep1"), ShouldBeNil)
		m.Wait()
		So(m.Select("a"), ShouldBeNil)

		Convey("Selecting the same option again should clear the answers", func() {
			So(m.Select("a"), ShouldBeNil)
			So(m.Snapshot().Selected, ShouldBeEmpty)
			So(m.Snapshot().State, ShouldEqual, Challenging)
			So(fetcher.recorded(), ShouldHaveLength, 1)
		})

		Convey("ClearAnswers should start the challenge over", func() {
			So(m.ClearAnswers(), ShouldBeNil)
			prompt, _ := m.Snapshot().Prompt()
			So(prompt, ShouldEqual, "cat")
		})

		Convey("The second prompt should be asked next", func() {
			prompt, ok := m.Snapshot().Prompt()
			So(ok, ShouldBeTrue)
			So(prompt, ShouldEqual, "dog")
		})
	})
}

func TestMachineAgainstHost(t *testing.T) {
	Convey("Given a machine resolving through a real coordinator", t, func() {
		h := &host{}
		server := httptest.NewServer(h)
		defer server.Close()

		m := NewMachine(newTestCoordinator(server))

		Convey("Video options should be ready with 1080p first", func() {
			h.respond(replyWith(`{"videoOptions":[{"title":"480p","url":"u1","directSource":true},{"title":"1080p","url":"u2","directSource":true}]}`))

			So(m.RequestResolution("ep1"), ShouldBeNil)
			m.Wait()

			snapshot := m.Snapshot()
			So(snapshot.State, ShouldEqual, Ready)
			So(snapshot.Outcome.(*VideoReady).Options[0].Title, ShouldEqual, "1080p")
		})

		Convey("The cat challenge should be answered with a second request", func() {
			h.respond(func(n int, w http.ResponseWriter) {
				if n == 1 {
					replyWith(`{"challengeContent":{"promptTexts":["cat"],"imgIdsAndSrcs":[{"formId":"a","imageId":"i1"},{"formId":"b","imageId":"i2"}]}}`)(n, w)
					return
				}
				replyWith(`{"videoHostUrl":"https://elsewhere"}`)(n, w)
			})

			So(m.RequestResolution("ep1"), ShouldBeNil)
			m.Wait()
			So(m.Snapshot().State, ShouldEqual, Challenging)

			So(m.Select("a"), ShouldBeNil)
			m.Wait()

			requests := h.requests()
			So(requests, ShouldHaveLength, 2)
			So(requests[1]["answers"], ShouldResemble, []any{map[string]any{"optionId": "a", "promptText": "cat"}})
			So(m.Snapshot().State, ShouldEqual, Unsupported)
		})
	})
}
