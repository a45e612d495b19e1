package game

// Selection representa a escolha do apostador. O método é o discriminante;
// os construtores abaixo são a única forma suportada de montar uma seleção,
// de modo que combinações inválidas (ex: posições numa aposta ANY) não
// aparecem no restante do código.
type Selection struct {
	Method        BetMethod
	Numbers       []int
	Positions     []int
	SelectedCount int
}

// NewPositionSelection: numbers[i] é apostado na posição positions[i] (1-5).
func NewPositionSelection(numbers, positions []int) Selection {
	return Selection{Method: MethodPosition, Numbers: numbers, Positions: positions}
}

// NewAnySelection: escolhe len(numbers) números, precisa de pelo menos
// selectedCount acertos entre os 5 sorteados.
func NewAnySelection(numbers []int, selectedCount int) Selection {
	return Selection{Method: MethodAny, Numbers: numbers, SelectedCount: selectedCount}
}

// NewGroupSelection: ganha se todos os números escolhidos forem sorteados.
func NewGroupSelection(numbers []int) Selection {
	return Selection{Method: MethodGroup, Numbers: numbers}
}

// Validate verifica a forma da seleção (números, posições, contagens).
// Limites de stake/payout são verificados pelo pricing contra a config.
func (s Selection) Validate() error {
	if err := validateNumbers(s.Numbers); err != nil {
		return err
	}

	switch s.Method {
	case MethodPosition:
		if len(s.Positions) == 0 || len(s.Positions) != len(s.Numbers) {
			return NewValidationError(ReasonPositionMismatch,
				"got %d numbers and %d positions", len(s.Numbers), len(s.Positions))
		}
		seen := make(map[int]bool, len(s.Positions))
		for _, p := range s.Positions {
			if p < 1 || p > DrawnCount {
				return NewValidationError(ReasonPositionOutOfRange,
					"position %d out of range [1,%d]", p, DrawnCount)
			}
			if seen[p] {
				return NewValidationError(ReasonPositionOutOfRange, "duplicate position %d", p)
			}
			seen[p] = true
		}
	case MethodAny:
		if s.SelectedCount < 1 || s.SelectedCount > DrawnCount {
			return NewValidationError(ReasonSelectedCountRange,
				"selected_count %d out of range [1,%d]", s.SelectedCount, DrawnCount)
		}
		if len(s.Numbers) < s.SelectedCount {
			return NewValidationError(ReasonTooFewNumbers,
				"%d numbers chosen, selected_count is %d", len(s.Numbers), s.SelectedCount)
		}
	case MethodGroup:
		if len(s.Numbers) < 2 {
			return NewValidationError(ReasonTooFewNumbers,
				"group bet needs at least 2 numbers, got %d", len(s.Numbers))
		}
		if len(s.Numbers) > DrawnCount {
			return NewValidationError(ReasonTooFewNumbers,
				"group bet allows at most %d numbers, got %d", DrawnCount, len(s.Numbers))
		}
	default:
		return NewValidationError(ReasonBadMethod, "unknown bet method %q", s.Method)
	}
	return nil
}

func validateNumbers(nums []int) error {
	if len(nums) == 0 {
		return NewValidationError(ReasonTooFewNumbers, "no numbers chosen")
	}
	if len(nums) > NumberMax {
		return NewValidationError(ReasonDuplicateNumbers, "more numbers than the game has")
	}
	seen := make(map[int]bool, len(nums))
	for _, n := range nums {
		if n < NumberMin || n > NumberMax {
			return NewValidationError(ReasonNumberOutOfRange,
				"number %d out of range [%d,%d]", n, NumberMin, NumberMax)
		}
		if seen[n] {
			return NewValidationError(ReasonDuplicateNumbers, "number %d repeated", n)
		}
		seen[n] = true
	}
	return nil
}
