package topics

const (
	// Apostas
	BetPlaced  = "bet_placed"
	BetSettled = "bet_settled"

	// Ciclo de vida dos concursos
	DrawClosed    = "draw_closed"
	DrawCompleted = "draw_completed"

	// DLQs
	DrawClosedDLQ = "draw_closed_dlq"
)
