package recommend

import (
	"fmt"
	"strings"
)

const recommenderSystemPrompt = "You are an assistant that provides specific supplement recommendations based on health summary."

// buildQuestion seeds the retrieval query with the ranked health summary.
func buildQuestion(healthSummary string) string {
	return fmt.Sprintf("사용자의 건강 문제는 %s 입니다. 이 사용자의 1~3순위 건강 문제 3가지에 각각 도움이 되는 영양제를 3가지 찾아 추천하세요.", healthSummary)
}

// buildCandidateContext renders the retrieved records verbatim, one per line.
func buildCandidateContext(results []SearchResult) string {
	lines := make([]string, 0, len(results))
	for _, res := range results {
		lines = append(lines, encodeRecord(res.Record))
	}
	return strings.Join(lines, "\n")
}

// buildUserSupplementContext lists the user's current products, or the fixed
// marker when there are none, so the prompt shape never changes.
func buildUserSupplementContext(supplements []UserSupplement) string {
	if len(supplements) == 0 {
		return NoSupplementsMarker
	}
	lines := make([]string, 0, len(supplements))
	for _, sup := range supplements {
		lines = append(lines, fmt.Sprintf("- %s (주요 성분: %s)", sup.Name, sup.Ingredients))
	}
	return strings.Join(lines, "\n")
}

// buildRecommendPrompt assembles the single grounded prompt. Every business
// rule the model must obey is stated here; the parser and grounding check
// enforce the ones that can be enforced programmatically.
func buildRecommendPrompt(candidateContext, userSupplementContext, question string) string {
	return fmt.Sprintf(`당신은 건강 보조제 추천 전문가입니다. 사용자의 질문에 대해 반드시 아래 제공된 참고 정보의 '제품명' 중에서 가장 관련이 있는 서로 다른 제품을 3가지 찾아 추천해주세요.

📌 반드시 지켜야 할 규칙:
1. "참고 정보"에 포함된 **제품명**만 추천해야 합니다. 임의로 제품명을 생성하지 마세요.
2. 제품명은 반드시 정확하게 표기된 전체 이름을 그대로 사용하세요 (예: "고려은단 비타민C 1000").
3. 참고 정보에서 해당 영양제의 '원재료' 중 가장 먼저 등장하는 영양성분 3-5가지를 '주요 원재료'로 제시하세요.
4. 효과는 참고 정보에서 해당 영양제의 '효과'를 참고하여 이해하기 쉽게 구체적으로 설명하세요.
5. 건강 문제, 추천 영양제, 주요 원재료, 효과 중 누락된 항목이 있으면 안 됩니다.

참고 정보:
%s

사용자가 복용 중인 영양제 정보:
%s

질문: %s

반드시 다음과 같은 형식으로 사용자의 3가지 건강 문제에 대해 각각 적합한 영양제를 추천하세요:

1. 건강 문제: (건강 문제 1순위)
   추천 영양제: (제품명 1)
   주요 원재료: (제품 1의 주요 원재료)
   효과: (제품 1의 효과)

2. 건강 문제: (건강 문제 2순위)
   추천 영양제: (제품명 2)
   주요 원재료: (제품 2의 주요 원재료)
   효과: (제품 2의 효과)

3. 건강 문제: (건강 문제 3순위)
   추천 영양제: (제품명 3)
   주요 원재료: (제품 3의 주요 원재료)
   효과: (제품 3의 효과)

사용자에게 필요한 영양성분 여러 가지가 동시에 포함되어 있는 영양제를 우선적으로 추천하세요.
영양제의 부원료와 주요성분의 시너지 효과를 고려하여 추천하세요. 같은 주요 성분이라도 부원료(보조 성분)에 따라 흡수율과 효과에 차이가 발생합니다.
예를 들어:
    칼슘 보충 → "비타민 D & K2 포함된 제품"이 흡수율 증가
    철분 보충 → "비타민 C 포함된 제품"이 흡수율 증가
    관절 건강 → "콜라겐 + 히알루론산 + MSM" 포함된 제품 추천
⚠️ 사용자가 **현재 복용 중인 제품과 동일한 성분**을 포함한 영양제는 추천하지 마세요.`,
		candidateContext, userSupplementContext, question)
}
