package numbering

// Item is one entry of an ordered sequence. LockedNumber is nil when the item
// is auto-numbered.
type Item struct {
	ID           string
	LockedNumber *int
}

// AssignNumbers computes the display number of every item in sequence order.
//
// A pinned item shows its pinned value and moves the cursor there. Any other
// item takes the smallest integer above the cursor that no item in the
// sequence has pinned. Pinned values are not checked against each other or
// against their position, so a small pin late in the list produces a
// non-monotonic display.
func AssignNumbers(items []Item) map[string]int {
	locked := make(map[int]struct{}, len(items))
	for _, it := range items {
		if it.LockedNumber != nil {
			locked[*it.LockedNumber] = struct{}{}
		}
	}

	numbers := make(map[string]int, len(items))
	cursor := 0
	for _, it := range items {
		if it.LockedNumber != nil {
			cursor = *it.LockedNumber
		} else {
			cursor = nextAutoNumber(cursor, locked)
		}
		numbers[it.ID] = cursor
	}
	return numbers
}

func nextAutoNumber(prev int, locked map[int]struct{}) int {
	n := prev + 1
	for {
		if _, taken := locked[n]; !taken {
			return n
		}
		n++
	}
}

// SceneNumber is the display number of the scene at index. Scenes do not
// avoid each other's pinned numbers.
func SceneNumber(lockedNumber *int, index int) int {
	if lockedNumber != nil {
		return *lockedNumber
	}
	return index + 1
}
