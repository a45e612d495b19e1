package pricing

import "github.com/radieske/lotto-platform-poc/internal/game"

// Binomial calcula C(n,k) de forma iterativa, sem overflow para os tamanhos
// do jogo (n <= 11).
func Binomial(n, k int) int64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := int64(1)
	for i := 1; i <= k; i++ {
		result = result * int64(n-k+i) / int64(i)
	}
	return result
}

// HypergeomAtLeast devolve P(X >= k) para X = acertos entre `chosen` números
// escolhidos, com 5 sorteados de 11 (distribuição hipergeométrica).
func HypergeomAtLeast(chosen, k int) float64 {
	total := float64(Binomial(game.NumberMax, game.DrawnCount))
	if total == 0 {
		return 0
	}
	var favorable float64
	max := chosen
	if game.DrawnCount < max {
		max = game.DrawnCount
	}
	for i := k; i <= max; i++ {
		favorable += float64(Binomial(chosen, i)) * float64(Binomial(game.NumberMax-chosen, game.DrawnCount-i))
	}
	return favorable / total
}

// groupProbability: probabilidade de todos os n números escolhidos saírem
// entre os 5 sorteados.
func groupProbability(n int) float64 {
	total := float64(Binomial(game.NumberMax, game.DrawnCount))
	if total == 0 || n > game.DrawnCount {
		return 0
	}
	return float64(Binomial(game.NumberMax-n, game.DrawnCount-n)) / total
}
