// Package draw gera o resultado do sorteio a partir de múltiplas fontes de
// entropia, com seed persistível para verificação posterior.
package draw

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	mrand "math/rand"
	"sort"
	"time"

	"github.com/radieske/lotto-platform-poc/internal/game"
)

// Proof registra a proveniência de um sorteio: o seed (hex do digest SHA-256
// das entradas) e o hash do resultado. Guardado junto do concurso para
// permitir Verify com reprodução exata.
type Proof struct {
	DrawID      string    `json:"draw_id"`
	DrawTime    time.Time `json:"draw_time"`
	Seed        string    `json:"seed"`
	ResultHash  string    `json:"result_hash"`
	Numbers     []int     `json:"numbers"`
	GeneratedAt time.Time `json:"generated_at"`
}

type Generator struct{}

func NewGenerator() *Generator { return &Generator{} }

// Generate combina identidade/horário do concurso, relógio de alta resolução
// e 32 bytes de crypto/rand (fonte do SO) num digest SHA-256; o digest é o
// seed que dirige a amostragem de 5 números distintos de 1..11. O resultado
// é validado contra as invariantes antes de ser devolvido — falha aqui é
// fatal e nada deve ser persistido.
func (g *Generator) Generate(drawID string, drawTime time.Time) ([]int, *Proof, error) {
	entropy := make([]byte, 32)
	if _, err := rand.Read(entropy); err != nil {
		return nil, nil, fmt.Errorf("%w: crypto entropy: %v", game.ErrInvariant, err)
	}

	now := time.Now()
	input := make([]byte, 0, len(drawID)+16+len(entropy))
	input = append(input, []byte(drawID)...)
	input = binary.BigEndian.AppendUint64(input, uint64(drawTime.UnixNano()))
	input = binary.BigEndian.AppendUint64(input, uint64(now.UnixNano()))
	input = append(input, entropy...)

	digest := sha256.Sum256(input)
	seed := hex.EncodeToString(digest[:])

	numbers, err := Expand(seed)
	if err != nil {
		return nil, nil, err
	}
	if err := game.ValidateWinningNumbers(numbers); err != nil {
		return nil, nil, err
	}

	proof := &Proof{
		DrawID:      drawID,
		DrawTime:    drawTime,
		Seed:        seed,
		ResultHash:  resultHash(drawID, numbers),
		Numbers:     numbers,
		GeneratedAt: now,
	}
	return numbers, proof, nil
}

// Expand deriva os 5 números de forma determinística a partir do seed:
// os primeiros 8 bytes alimentam um PRNG que faz uma amostragem
// Fisher-Yates sem reposição sobre 1..11.
func Expand(seedHex string) ([]int, error) {
	raw, err := hex.DecodeString(seedHex)
	if err != nil || len(raw) < 8 {
		return nil, fmt.Errorf("%w: malformed seed", game.ErrValidation)
	}

	src := mrand.NewSource(int64(binary.BigEndian.Uint64(raw[:8])))
	r := mrand.New(src)

	pool := make([]int, game.NumberMax)
	for i := range pool {
		pool[i] = i + game.NumberMin
	}
	for i := 0; i < game.DrawnCount; i++ {
		j := i + r.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	numbers := make([]int, game.DrawnCount)
	copy(numbers, pool[:game.DrawnCount])
	sort.Ints(numbers)
	return numbers, nil
}

// Verify confere um resultado reivindicado. Com seed, a expansão é refeita e
// comparada número a número (determinismo criptográfico); sem seed só resta
// a checagem estrutural, que não prova origem — por isso o seed é sempre
// persistido junto do concurso.
func (g *Generator) Verify(drawID string, drawTime time.Time, claimed []int, seedHex string) (bool, error) {
	if err := game.ValidateWinningNumbers(claimed); err != nil {
		return false, nil
	}
	if seedHex == "" {
		return true, nil
	}

	expected, err := Expand(seedHex)
	if err != nil {
		return false, err
	}
	for i := range expected {
		if expected[i] != claimed[i] {
			return false, nil
		}
	}
	return true, nil
}

func resultHash(drawID string, numbers []int) string {
	h := sha256.New()
	h.Write([]byte(drawID))
	for _, n := range numbers {
		h.Write([]byte{byte(n)})
	}
	return hex.EncodeToString(h.Sum(nil))
}
