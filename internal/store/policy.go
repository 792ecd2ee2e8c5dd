package store

import "log/slog"

// WritePolicy states how one entity family treats a failed remote write.
// Bookmarks are strict: the backend is the system of record for link content
// and a failed write must surface. Categories and tags are organizational
// overlay, so they degrade to a local-only write and reconcile on the next
// bulk load.
type WritePolicy struct {
	Entity     string
	Optimistic bool
}

var (
	bookmarkPolicy = WritePolicy{Entity: "bookmark"}
	categoryPolicy = WritePolicy{Entity: "category", Optimistic: true}
	tagPolicy      = WritePolicy{Entity: "tag", Optimistic: true}
)

// Absorb decides the fate of a remote write error. Optimistic families log
// it and report success so the local mutation proceeds; strict families
// propagate it unchanged.
func (p WritePolicy) Absorb(logger *slog.Logger, op string, err error) error {
	if err == nil {
		return nil
	}
	if !p.Optimistic {
		return err
	}
	logger.Warn("remote write failed, keeping local copy",
		"entity", p.Entity, "op", op, "error", err)
	return nil
}
