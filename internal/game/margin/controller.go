// Package margin analisa a margem realizada dos concursos liquidados contra
// a meta da casa. Saída é apenas consultiva: nunca realimenta o sorteio nem
// altera liquidações (fronteira de fairness).
package margin

import "github.com/radieske/lotto-platform-poc/internal/game"

type Direction string

const (
	AdviceHold        Direction = "HOLD"
	AdviceRaiseMargin Direction = "RAISE_MARGIN" // casa pagando demais: apertar odds
	AdviceLowerMargin Direction = "LOWER_MARGIN" // casa retendo demais: afrouxar odds
)

// Advice é a recomendação entregue ao operador.
type Advice struct {
	Direction      Direction
	AvgProfitRatio float64
	TargetRatio    float64
	Samples        int
}

// Controller compara a média de profit/stake da janela contra a meta com
// bandas de tolerância.
type Controller struct {
	Target   float64 // ex: 0.18
	LowerTol float64 // banda abaixo da meta
	UpperTol float64 // banda acima da meta
}

func NewController(target, lowerTol, upperTol float64) *Controller {
	return &Controller{Target: target, LowerTol: lowerTol, UpperTol: upperTol}
}

// Evaluate calcula a média dos profit ratios da janela. Concursos com stake
// zero têm ratio indefinido e ficam de fora (não contam como 0% nem 100%).
func (c *Controller) Evaluate(window []game.Draw) Advice {
	adv := Advice{Direction: AdviceHold, TargetRatio: c.Target}

	var sum float64
	for i := range window {
		d := &window[i]
		if d.Status != game.DrawCompleted || d.TotalStakeCents == 0 {
			continue
		}
		sum += float64(d.ProfitCents) / float64(d.TotalStakeCents)
		adv.Samples++
	}
	if adv.Samples == 0 {
		return adv
	}

	adv.AvgProfitRatio = sum / float64(adv.Samples)
	switch {
	case adv.AvgProfitRatio < c.Target-c.LowerTol:
		adv.Direction = AdviceRaiseMargin
	case adv.AvgProfitRatio > c.Target+c.UpperTol:
		adv.Direction = AdviceLowerMargin
	}
	return adv
}
