// Package viz provides the terminal rendering surfaces for the simulator.
//
//   - [Scene]: braille 3D scene implementing the particle renderer
//   - [Charts]: asciigraph chart surface implementing the chart renderer
//   - [App]: Bubble Tea application driving a controller at a fixed frame rate
//
// # Key Bindings
//
//	Space  - Pause/Resume simulation
//	Tab    - Select parameter
//	Up/K   - Increase parameter (+5%)
//	Down/J - Decrease parameter (-5%)
//	A      - Apply Stokes–Einstein (derive D)
//	C      - Calculate times at the target distance
//	1 2 3  - MSD, diffusion time, comparison chart
//	R      - Reset particles to the origin
//	T      - Cycle color themes
//	?      - Show help overlay
//	+/-    - Zoom the 3D view
//	X Y Z  - Rotate the 3D view
//	Q      - Quit
package viz
