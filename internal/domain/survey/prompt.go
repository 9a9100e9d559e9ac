package survey

import (
	"fmt"
	"strings"
)

const summarizerSystemPrompt = "You are an AI health expert providing concise health summaries."

// buildContext renders the decoded answers into the textual block the ranking
// prompt consumes.
func buildContext(answers []Answer) string {
	lines := make([]string, 0, len(answers))
	for _, ans := range answers {
		lines = append(lines, fmt.Sprintf("- 질문: %s\n  응답: %s\n  우려사항: %s\n  필요한 영양소: %s",
			ans.Question, ans.Answer, ans.Concern, strings.Join(ans.RequiredNutrients, ", ")))
	}
	return strings.Join(lines, "\n")
}

// buildRankingPrompt asks the model to order the concerns by severity and emit
// three ranked paragraphs in the fixed template. The template is advisory: the
// consumer treats the whole text as the retrieval seed and never extracts
// per-field values from it.
func buildRankingPrompt(context string) string {
	return fmt.Sprintf(`당신은 전문 건강 분석 AI입니다. 아래 건강 설문 데이터를 기반으로 각 항목에 대해 답변을 해석하고, 건강 문제의 심각도에 따라 1~3순위로 우선순위를 정리하세요. 반드시 한국어로 답하세요.

건강 설문 데이터:
%s

⚠️ 반드시 아래 '답변 형식'을 그대로 따르세요. 출력 형식이 정확히 맞지 않으면 시스템 오류가 발생합니다.
답변 형식:
1순위: "사용자는 [응답]하므로, [우려사항]이 가장 우려됩니다. 이에 따라 [필요한 영양소] 보충이 필요할 수 있습니다."
2순위: "사용자는 [응답]하므로, [우려사항]이 두 번째로 우려됩니다. 이에 따라 [필요한 영양소] 보충이 필요할 수 있습니다."
3순위: "사용자는 [응답]하므로, [우려사항]이 세 번째로 우려됩니다. 이에 따라 [필요한 영양소] 보충이 필요할 수 있습니다."

예시 출력:
1순위: 사용자는 매우 자주 시력이 저하되거나 눈이 피로해지므로, 시력 저하와 안구 건조증이 가장 우려됩니다. 이에 따라 비타민 A, 오메가-3 지방산 보충이 필요할 수 있습니다.
2순위: 사용자는 자주 관절에 통증을 느끼므로, 관절염과 연골 손상이 두 번째로 우려됩니다. 이에 따라 글루코사민, MSM 보충이 필요할 수 있습니다.
3순위: 사용자는 거의 채소를 섭취하지 않으므로, 항산화 부족과 면역력 저하가 세 번째로 우려됩니다. 이에 따라 비타민 C, 폴리페놀 보충이 필요할 수 있습니다.

심각도 판단 기준:
- '매우 자주 있음' → 높은 심각도
- 만성 질환 및 기능성 문제 → 우선순위 높음
- 특정 영양소 결핍 우려 시 → 우선순위 높음
- 사용자가 명시한 '영양제 섭취 목적' → 1순위 고려

형식을 반드시 지키고, 각 순위별로 한 문단으로 출력하세요. 중복된 문구 없이 명확하게 서술하세요.`, context)
}
