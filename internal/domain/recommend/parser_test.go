package recommend

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/pillmein/supplement-advisor/pkg/errors"
)

func validReply() string {
	var b strings.Builder
	for i, name := range []string{"오메가3", "비타민D", "아연"} {
		fmt.Fprintf(&b, "%d. 건강 문제: 문제%d\n", i+1, i+1)
		fmt.Fprintf(&b, "추천 영양제: %s\n", name)
		fmt.Fprintf(&b, "주요 원재료: 원재료%d\n", i+1)
		fmt.Fprintf(&b, "효과: 효과%d\n\n", i+1)
	}
	return b.String()
}

func TestParseRecommendationsRoundTrip(t *testing.T) {
	candidates, err := ParseRecommendations(validReply())
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	require.Equal(t, "문제1", candidates[0].HealthIssue)
	require.Equal(t, "오메가3", candidates[0].Name)
	require.Equal(t, "원재료1", candidates[0].Ingredients)
	require.Equal(t, "효과1", candidates[0].Effect)
	require.Equal(t, "아연", candidates[2].Name)
}

func TestParseRecommendationsPreservesFieldText(t *testing.T) {
	raw := `1. 건강 문제: 만성 피로와 수면 부족
추천 영양제: 마그네슘 글리시네이트
주요 원재료: 마그네슘, 글리신
효과: 긴장 완화: 수면의 질 개선
2. 건강 문제: b
추천 영양제: n
주요 원재료: i
효과: e
3. 건강 문제: c
추천 영양제: m
주요 원재료: j
효과: f`
	candidates, err := ParseRecommendations(raw)
	require.NoError(t, err)
	// text after the first separator survives verbatim, later colons included
	require.Equal(t, "긴장 완화: 수면의 질 개선", candidates[0].Effect)
	require.Equal(t, "마그네슘, 글리신", candidates[0].Ingredients)
}

func TestParseRecommendationsWrongCount(t *testing.T) {
	for _, count := range []int{0, 1, 2, 4} {
		var b strings.Builder
		for i := 0; i < count; i++ {
			ordinal := i%3 + 1
			fmt.Fprintf(&b, "%d. 건강 문제: 문제\n추천 영양제: 제품\n주요 원재료: 원재료\n효과: 효과\n", ordinal)
		}
		_, err := ParseRecommendations(b.String())
		require.True(t, apperrors.IsCode(err, apperrors.CodeMalformedRec), "count=%d", count)
	}
}

func TestParseRecommendationsMissingField(t *testing.T) {
	raw := strings.Replace(validReply(), "주요 원재료: 원재료2\n", "", 1)
	_, err := ParseRecommendations(raw)
	require.True(t, apperrors.IsCode(err, apperrors.CodeMalformedRec))
	require.Contains(t, err.Error(), "주요 원재료")
}

func TestParseRecommendationsBlankFieldRejected(t *testing.T) {
	raw := strings.Replace(validReply(), "효과: 효과3", "효과:", 1)
	_, err := ParseRecommendations(raw)
	require.True(t, apperrors.IsCode(err, apperrors.CodeMalformedRec))
}

func TestParseRecommendationsIgnoresPreamble(t *testing.T) {
	raw := "다음은 추천 결과입니다.\n\n" + validReply() + "\n추가 안내가 필요하면 알려주세요."
	candidates, err := ParseRecommendations(raw)
	require.NoError(t, err)
	require.Len(t, candidates, 3)
}

func TestValidateGrounding(t *testing.T) {
	retrieved := []SearchResult{
		{Record: SupplementRecord{Name: "오메가3"}},
		{Record: SupplementRecord{Name: "비타민D"}},
		{Record: SupplementRecord{Name: "아연"}},
	}

	candidates, err := ParseRecommendations(validReply())
	require.NoError(t, err)
	require.NoError(t, validateGrounding(candidates, retrieved))

	candidates[1].Name = "지어낸 제품"
	err = validateGrounding(candidates, retrieved)
	require.True(t, apperrors.IsCode(err, apperrors.CodeMalformedRec))
	require.Contains(t, err.Error(), "지어낸 제품")
}
