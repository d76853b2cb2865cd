// Package viz is the interactive terminal shell.
//
// [Model] is a Bubble Tea program that owns a world, ticks it sixty times a
// second and draws it onto a braille [Canvas]. A [Viewport] maps the square
// simulation space onto the canvas and turns a mouse drag into a launch:
// the body appears under the press point and its velocity points from the
// release point back through the press point.
//
// # Controls
//
//	Drag         - Sling a new body (the world keeps moving while you aim)
//	Middle / P   - Toggle trails
//	Right / Q    - Quit
//	Space        - Pause/Resume
//	R            - Reset to the configured bodies
//	+ / -        - Ticks per frame
//	T            - Cycle color themes
//	G            - Toggle GIF recording
//	?            - Show help overlay
//
// The program must run with mouse cell motion enabled:
//
//	tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
package viz
