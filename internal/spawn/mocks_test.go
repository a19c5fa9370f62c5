package spawn

import (
	"errors"
	"slices"

	"github.com/udisondev/spawnkit/internal/model"
)

// spawnCall — один вызов SpawnInstance
type spawnCall struct {
	proto model.PrototypeID
	pos   model.Location
	rot   model.Rotator
}

// mockHost для тестов: выдаёт handles по порядку, умеет отказывать и убивать объекты
type mockHost struct {
	next       model.InstanceHandle
	alive      map[model.InstanceHandle]bool
	destroying map[model.InstanceHandle]bool
	calls      []spawnCall
	refuse     func(call spawnCall) bool
	fixed      model.InstanceHandle // when set, every spawn returns this handle
}

func newMockHost() *mockHost {
	return &mockHost{
		alive:      make(map[model.InstanceHandle]bool),
		destroying: make(map[model.InstanceHandle]bool),
	}
}

func (h *mockHost) SpawnInstance(proto model.PrototypeID, pos model.Location, rot model.Rotator) (model.InstanceHandle, bool) {
	call := spawnCall{proto: proto, pos: pos, rot: rot}
	h.calls = append(h.calls, call)
	if h.refuse != nil && h.refuse(call) {
		return model.InvalidHandle, false
	}
	handle := h.fixed
	if handle == model.InvalidHandle {
		h.next++
		handle = h.next
	}
	h.alive[handle] = true
	return handle, true
}

func (h *mockHost) IsAlive(handle model.InstanceHandle) bool {
	return h.alive[handle]
}

func (h *mockHost) IsDestroying(handle model.InstanceHandle) bool {
	return h.destroying[handle]
}

func (h *mockHost) kill(handle model.InstanceHandle) {
	delete(h.alive, handle)
}

func (h *mockHost) markDestroying(handle model.InstanceHandle) {
	h.destroying[handle] = true
}

func (h *mockHost) spawnedProtos() []model.PrototypeID {
	out := make([]model.PrototypeID, 0, len(h.calls))
	for _, c := range h.calls {
		out = append(out, c.proto)
	}
	return out
}

// report — одно сообщение диагностики
type report struct {
	message  string
	severity Severity
}

type recordingDiagnostics struct {
	reports []report
}

func (d *recordingDiagnostics) Report(message string, severity Severity) {
	d.reports = append(d.reports, report{message: message, severity: severity})
}

type cue struct {
	kind string
	id   string
	pos  model.Location
}

type recordingEffects struct {
	cues      []cue
	failWith  error
	panicWith any
}

func (e *recordingEffects) TriggerVisualEffect(effect string, pos model.Location, _ model.Rotator) error {
	e.cues = append(e.cues, cue{kind: "fx", id: effect, pos: pos})
	if e.panicWith != nil {
		panic(e.panicWith)
	}
	return e.failWith
}

func (e *recordingEffects) PlaySound(sound string, pos model.Location) error {
	e.cues = append(e.cues, cue{kind: "sound", id: sound, pos: pos})
	return e.failWith
}

var errCueFailed = errors.New("cue failed")

// fixedRand returns the same float every time and cycles ints
type fixedRand struct {
	f    float64
	ints []int
}

func (r *fixedRand) Float64() float64 {
	return r.f
}

func (r *fixedRand) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = append(slices.Clone(r.ints[1:]), v)
	return v % n
}

func testConfig(id string, protos ...model.PrototypeID) model.SpawnerConfig {
	cfg := model.DefaultSpawnerConfig()
	cfg.ID = id
	cfg.Prototypes = protos
	return cfg
}
