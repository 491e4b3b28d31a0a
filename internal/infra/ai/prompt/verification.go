package prompt

import (
	"fmt"

	"github.com/sbateeni/legal-analysis-nextjs/internal/domain/stages"
)

// Verification builds the refinement prompt for a draft stage analysis.
// The original text is truncated with the same bound as the stage prompt.
func Verification(stageName, text, draft string) string {
	return fmt.Sprintf(`قم بمراجعة وتحسين التحليل التالي للمرحلة: %s

النص الأصلي:
%s

التحليل الحالي:
%s

قم بما يلي:
1. تحقق من دقة المعلومات القانونية
2. تأكد من تغطية جميع جوانب المرحلة
3. أضف أي معلومات قانونية مهمة مفقودة
4. تحقق من تناسق الاستنتاجات مع النص الأصلي
5. قم بتحسين الصياغة والوضوح

قدم التحليل المحسن مع شرح التغييرات التي تمت.`, stageName, stages.Truncate(text), draft)
}

// GetSystemPrompt frames every request sent to chat-style providers.
func GetSystemPrompt() string {
	return `You are a senior legal analyst. Answer in Arabic unless the text is in another language.
Requirements:
- Work only from the text and the stage instructions you are given.
- Cite the relevant legal provisions or principles where possible.
- Keep the structure clear: headings, numbered points, a short conclusion.
- Do not invent facts that are not in the text; state what is missing instead.`
}
