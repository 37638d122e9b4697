// Package render draws timeline visualizations of a day's outage windows.
// Both renderers map the 1440-minute day onto a fixed number of columns and
// are pure functions of the window list.
package render

import "github.com/gpv-monitor/gpv/core/schedule"

// columnStates marks each of cols columns as outage when its covered minute
// range [i*1440/cols, (i+1)*1440/cols) intersects any window.
func columnStates(windows []schedule.TimeWindow, cols int) []bool {
	states := make([]bool, cols)
	for i := range states {
		lo := i * schedule.MinutesPerDay / cols
		hi := (i + 1) * schedule.MinutesPerDay / cols
		for _, w := range windows {
			if w.Start < hi && w.End > lo {
				states[i] = true
				break
			}
		}
	}
	return states
}
