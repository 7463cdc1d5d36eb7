package domain

// ReloadMode tells a browser how to apply a change.
type ReloadMode string

const (
	// ReloadPage forces a full page reload.
	ReloadPage ReloadMode = "reload"
	// ReloadInject swaps stylesheets in place without reloading the page.
	ReloadInject ReloadMode = "inject"
)

// ReloadEvent is pushed to live-reload clients after a task wrote outputs.
type ReloadEvent struct {
	Kind  AssetKind  `json:"kind"`
	Mode  ReloadMode `json:"mode"`
	Paths []string   `json:"paths"`
	Hash  string     `json:"hash"`
}

// NewReloadEvent builds the event for a kind. Stylesheets are injected,
// everything else reloads the page.
func NewReloadEvent(kind AssetKind, paths []string, hash string) ReloadEvent {
	mode := ReloadPage
	if kind == KindCSS {
		mode = ReloadInject
	}
	return ReloadEvent{
		Kind:  kind,
		Mode:  mode,
		Paths: paths,
		Hash:  hash,
	}
}

// TaskResult summarizes one task run.
type TaskResult struct {
	Kind AssetKind
	// Written lists the output paths, relative to the project root, in write order.
	Written []string
	// Failures holds the stage errors that were reported and swallowed.
	Failures []error
	// Hash fingerprints the written contents.
	Hash string
}

// Files returns the number of files written.
func (r TaskResult) Files() int {
	return len(r.Written)
}
