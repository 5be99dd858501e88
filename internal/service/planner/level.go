package planner

// LevelInfo: текущий уровень и прогресс до следующего
type LevelInfo struct {
	Level            int    `json:"level"`
	Title            string `json:"title"`
	Icon             string `json:"icon"`
	XP               int    `json:"xp"`
	CurrentThreshold int    `json:"currentThreshold"`
	NextThreshold    int    `json:"nextThreshold"`
	NextTitle        string `json:"nextTitle,omitempty"`
	Progress         int    `json:"progress"`
	XPToNext         int    `json:"xpToNext"`
	IsMaxLevel       bool   `json:"isMaxLevel"`
}

// GetLevelInfo отображает XP на уровень, титул и прогресс
func GetLevelInfo(xp int) LevelInfo {
	current := levelTable[0]
	for _, def := range levelTable {
		if def.Threshold <= xp {
			current = def
		}
	}

	var next *LevelDefinition
	for i := range levelTable {
		if levelTable[i].Threshold > xp {
			next = &levelTable[i]
			break
		}
	}

	info := LevelInfo{
		Level:            current.Level,
		Title:            current.Title,
		Icon:             current.Icon,
		XP:               xp,
		CurrentThreshold: current.Threshold,
	}

	if next == nil {
		info.IsMaxLevel = true
		info.NextThreshold = current.Threshold
		info.Progress = 100
		return info
	}

	info.NextThreshold = next.Threshold
	info.NextTitle = next.Title
	info.XPToNext = max(0, next.Threshold-xp)

	span := next.Threshold - current.Threshold
	if span > 0 {
		progress := roundInt(float64(xp-current.Threshold) / float64(span) * 100)
		// xp ниже первого порога (отрицательный XP) не должен давать отрицательный прогресс
		info.Progress = max(0, min(100, progress))
	}

	return info
}
