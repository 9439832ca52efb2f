package translation

import (
	"fmt"
	"sort"
	"strings"

	"horse.fit/polyglot/internal/language"
)

type languageLabel struct {
	english string
	chinese string
}

var translationLanguageLabels = map[string]languageLabel{
	"ar": {english: "Arabic", chinese: "阿拉伯语"},
	"de": {english: "German", chinese: "德语"},
	"en": {english: "English", chinese: "英语"},
	"es": {english: "Spanish", chinese: "西班牙语"},
	"fr": {english: "French", chinese: "法语"},
	"id": {english: "Indonesian", chinese: "印度尼西亚语"},
	"it": {english: "Italian", chinese: "意大利语"},
	"ja": {english: "Japanese", chinese: "日语"},
	"ko": {english: "Korean", chinese: "韩语"},
	"pl": {english: "Polish", chinese: "波兰语"},
	"pt": {english: "Portuguese", chinese: "葡萄牙语"},
	"ru": {english: "Russian", chinese: "俄语"},
	"th": {english: "Thai", chinese: "泰语"},
	"tr": {english: "Turkish", chinese: "土耳其语"},
	"vi": {english: "Vietnamese", chinese: "越南语"},
	"zh": {english: "Chinese", chinese: "中文"},
}

// styleDescriptions maps a requested translation style to the prompt wording
// understood by the chat-completion providers.
var styleDescriptions = map[string]string{
	"natural":   "自然流畅",
	"formal":    "正式严谨",
	"casual":    "轻松随意",
	"technical": "专业技术",
	"literary":  "文学优美",
}

// DefaultStyle is used when a request carries no style.
const DefaultStyle = "natural"

// SupportedLanguageCodes lists all language codes with label entries, sorted.
func SupportedLanguageCodes() []string {
	codes := make([]string, 0, len(translationLanguageLabels))
	for code := range translationLanguageLabels {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func languageLabelFor(lang string) languageLabel {
	normalized := language.NormalizeCode(lang)
	if labels, ok := translationLanguageLabels[normalized]; ok {
		return labels
	}
	fallback := strings.TrimSpace(lang)
	if fallback == "" {
		fallback = "English"
	}
	return languageLabel{english: fallback, chinese: fallback}
}

func styleDescription(style string) string {
	normalized := strings.ToLower(strings.TrimSpace(style))
	if desc, ok := styleDescriptions[normalized]; ok {
		return desc
	}
	return styleDescriptions[DefaultStyle]
}

// buildStylePrompt renders the translation instruction sent to the
// chat-completion providers.
func buildStylePrompt(text, sourceLang, targetLang, style string) string {
	source := languageLabelFor(sourceLang)
	target := languageLabelFor(targetLang)
	return fmt.Sprintf(
		"请将以下%s文本翻译成%s，要求翻译%s、准确达意：\n\n%s\n\n请只返回翻译结果，不要包含其他内容。",
		source.chinese, target.chinese, styleDescription(style), text,
	)
}

const systemPrompt = "你是一个专业的翻译助手，能够提供高质量的多语言翻译服务。"
