// This file derives ExtraData by replaying a decoded event stream against
// the hand-progression rules, reproducing
// original_source/src/models/replay.rs:528 DdRpl::create_extra.

package ddreplay

import "github.com/ddstats/ddcore/ddspawnset"

// Hand-tier gem thresholds (original_source/src/models/replay.rs create_extra).
const (
	handTierTwoGems   = 10
	handTierThreeGems = 70
	handTierFourHoming = 150
)

// DeriveExtraData replays data against spawnset to reconstruct the
// per-frame homing-gem count the live game's memory block would have
// reported, frame by frame. This is only meaningful for ddrpl (legacy)
// replays: spec.md §4.R names it "(ddrpl only)" since the modern envelope
// has no paired spawnset to derive hand progression from.
func DeriveExtraData(data *ReplayData, spawnset *ddspawnset.Spawnset[ddspawnset.V3]) *ExtraData {
	extra := &ExtraData{}

	var initialHand byte
	var additionalGems int32
	if spawnset != nil && spawnset.Settings != nil {
		initialHand = spawnset.Settings.InitialHand
		additionalGems = spawnset.Settings.AdditionalGems
	}
	extra.StartingHand = initialHand
	extra.StartingGems = additionalGems

	handLevel := initialHand
	var levelGems, homing, homingUsed int32

	switch handLevel {
	case 3:
		levelGems, homing = 70, additionalGems
	case 4:
		levelGems, homing = 71, additionalGems
	default:
		levelGems = additionalGems
	}

	homingHistory := make([]int32, 0, len(data.Frames))
	homingUsedHistory := make([]int32, 0, len(data.Frames))

	for frameIdx, frame := range data.Frames {
		for _, event := range frame.Events {
			switch ev := event.(type) {
			case EndFrameEvent:
				if ev.Mouse.LookSpeed != nil {
					extra.LookSpeed = *ev.Mouse.LookSpeed
				}

			case GemPickupEvent:
				switch {
				case handLevel <= 1:
					levelGems++
					if levelGems >= handTierTwoGems {
						extra.Lvl2Time = float32(frameIdx+1) / 60.0
						handLevel = 2
						levelGems = handTierTwoGems
					}
				case handLevel == 2:
					levelGems++
					if levelGems >= handTierThreeGems {
						extra.Lvl3Time = float32(frameIdx+1) / 60.0
						handLevel = 3
						levelGems = handTierThreeGems
					}
				case handLevel == 3:
					homing++
					if homing >= handTierFourHoming {
						extra.Lvl4Time = float32(frameIdx+1) / 60.0
						handLevel = 4
						levelGems = 71
						homing = 0
					}
				default:
					homing++
				}

			case SpawnEvent:
				if ev.Payload.Dagger != nil && ev.Payload.Dagger.Level == DaggerLevel6 {
					homing--
					homingUsed++
				}
			}
		}

		homingHistory = append(homingHistory, homing)
		homingUsedHistory = append(homingUsedHistory, homingUsed)
	}

	extra.Homing = homingHistory
	extra.HomingUsed = homingUsedHistory
	return extra
}
