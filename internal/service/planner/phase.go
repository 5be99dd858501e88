package planner

import "math"

// DetectPhase определяет этап подготовки по количеству дней до экзамена
func DetectPhase(daysToExam int) ExamPhase {
	for _, t := range phaseThresholds {
		if daysToExam > t.MoreThan {
			return t.Phase
		}
	}
	return PhaseFinalPush
}

// PhaseSplitFor возвращает распределение времени для этапа.
// Неизвестный этап получает распределение foundation.
func PhaseSplitFor(phase ExamPhase) PhaseSplit {
	if split, ok := phaseSplits[phase]; ok {
		return split
	}
	return phaseSplits[PhaseFoundation]
}

// Sum: сумма долей, для проверки инварианта таблицы
func (s PhaseSplit) Sum() float64 {
	return s.DeepStudy + s.Practice + s.Mock
}

// IsBalanced: доли складываются в 1.0 с точностью до погрешности float
func (s PhaseSplit) IsBalanced() bool {
	return math.Abs(s.Sum()-1.0) < 1e-9
}

// Phases возвращает все этапы в порядке от дальнего к ближнему
func Phases() []ExamPhase {
	return []ExamPhase{
		PhaseFoundation,
		PhaseBuilding,
		PhaseStrengthening,
		PhaseRevisionSprint,
		PhaseMockIntensive,
		PhaseFinalPush,
	}
}
