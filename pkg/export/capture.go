package export

import (
	"time"

	"github.com/vango-dev/reflow/pkg/component"
	"github.com/vango-dev/reflow/pkg/host/memhost"
)

// Capture builds a snapshot of inst rendered into doc. The document's op
// log is included as is; reset it between snapshots to keep them small.
func Capture(name string, inst *component.Instance, doc *memhost.Document) Snapshot {
	snap := Snapshot{
		Name:      name,
		State:     inst.Data().ToPlain(),
		Ops:       doc.Ops(),
		CreatedAt: time.Now().UTC(),
	}
	if root, ok := inst.Root().(*memhost.Node); ok {
		snap.HTML = root.HTML()
	}
	return snap
}
