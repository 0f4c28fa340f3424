package combat

// Ability names used as cooldown keys.
const (
	AbilityMelee  = "melee"
	AbilityRanged = "ranged"
)

// ReadyCooldown refuses to trigger while ability is still cooling down and
// records now as the trigger time when it is ready. Times are simulation
// seconds.
func ReadyCooldown(cooldowns *map[string]float64, ability string, cooldown, now float64) bool {
	if cooldowns == nil {
		return false
	}
	if *cooldowns == nil {
		*cooldowns = make(map[string]float64)
	}
	if cooldown > 0 {
		if last, ok := (*cooldowns)[ability]; ok && now-last < cooldown {
			return false
		}
	}
	(*cooldowns)[ability] = now
	return true
}
