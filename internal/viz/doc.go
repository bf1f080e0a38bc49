// Package viz renders temperature snapshots in the terminal.
//
// [RenderProfile] draws one profile with asciigraph. [LiveModel] is a
// Bubble Tea program that pulls one snapshot per frame from a boundary
// driver and animates the profile:
//
//	run, _ := config.DefaultConfig().Build()
//	m := viz.NewLiveModel(run.Sequence(), viz.LiveOptions{Title: "dirichlet"})
//	err := viz.RunLive(m)
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Single step while paused
//	T     - Cycle color themes
//	Q     - Quit
package viz
