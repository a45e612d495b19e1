package dto

// PlaceBetRequest é o payload de POST /bets. Numbers carrega a seleção em
// qualquer método; Positions só vale para POSITION e SelectedCount só para ANY.
type PlaceBetRequest struct {
	UserID        string `json:"userId"`
	DrawID        string `json:"drawId"`
	Method        string `json:"method"` // POSITION | ANY | GROUP
	Numbers       []int  `json:"numbers"`
	Positions     []int  `json:"positions,omitempty"`
	SelectedCount int    `json:"selected_count,omitempty"`
	StakeCents    int64  `json:"stake_cents"`
	Multiplier    int64  `json:"multiplier"`
}

// VerifyDrawRequest permite a auditoria externa de um resultado: os números
// reivindicados e, opcionalmente, o seed publicado do concurso.
type VerifyDrawRequest struct {
	Numbers []int  `json:"numbers"`
	Seed    string `json:"seed,omitempty"`
}
