package dice

// Roll evaluates an Expression using the given Source.
//
// Precondition: expr must come from Parse or Die; src must be non-nil.
// Postcondition: len(result.Dice) == expr.Count and every die is in [1, expr.Sides].
func Roll(expr Expression, src Source) RollResult {
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}
	return RollResult{
		Expression: expr.Raw,
		Dice:       rolled,
		Modifier:   expr.Modifier,
	}
}
