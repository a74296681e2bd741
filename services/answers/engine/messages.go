// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"fmt"
	"strings"
)

// User-visible Arabic message texts. Kept in one place so the wording stays
// consistent across the direct, split, and clarification paths.
const (
	msgNoPreciseAnswer = "لم يتم العثور على إجابة دقيقة."
	msgUnavailable     = "نأسف لعدم توفر الإجابة على هذا السؤال حالياً، يرجى المحاولة لاحقاً."
	msgSplitHeader     = "تم تقسيم سؤالك إلى الأجزاء التالية مع إجاباتها:"
	labelYes           = "نعم , "
	labelNo            = "لا , "
	permissiblePhrase  = "هل يجوز"
	msgNotUnderstood   = "عذرًا، لم أتمكن من فهم سؤالك. حاول إعادة صياغته مع ذكر الموضوع المقصود."
)

func msgNoDetailedAnswer(keyword string) string {
	return fmt.Sprintf("عذرًا، لا تتوفر إجابة مفصّلة عن «%s».", keyword)
}

func msgWhichIntent(subject string) string {
	return fmt.Sprintf("ما الذي تود معرفته بخصوص %s؟ (حكم، تعريف، فضل، كيفية…)", subject)
}

func msgWhichIntentOf(intents []string) string {
	return fmt.Sprintf("ما الذي تشير إليه بخصوص (%s)؟", strings.Join(intents, "، "))
}

func msgWhichKeywordFor(intent string) string {
	return fmt.Sprintf("أي موضوع يخص «%s» تقصده؟ مثل: %s الصلاة، %s الصيام…", intent, intent, intent)
}

func msgAmbiguousKeywords(question string, candidates []string) string {
	return fmt.Sprintf("سؤالك عن «%s» يحتمل: %s. حدّد المطلوب.", question, strings.Join(candidates, " أم "))
}

func msgSeveralIntentsStored(keyword string, intents []string) string {
	return fmt.Sprintf("لدي أكثر من إجابة ممكنة بخصوص %s (%s). حدِّد المطلوب.", keyword, strings.Join(intents, "، "))
}

// renderSubQuestion rebuilds a readable sub-question for a split bundle
// entry: «ما ‹intent› ‹keyword› 【extras】 ؟», with the qualifier block
// omitted when empty.
func renderSubQuestion(intent, keyword string, extras ...string) string {
	var present []string
	for _, e := range extras {
		if s := strings.TrimSpace(e); s != "" {
			present = append(present, s)
		}
	}
	if len(present) == 0 {
		return fmt.Sprintf("ما %s %s ؟", intent, keyword)
	}
	return fmt.Sprintf("ما %s %s 【 %s 】 ؟", intent, keyword, strings.Join(present, " , "))
}

// subjectWithType renders «keyword» or «keyword type» for clarification
// prompts, normalizing the definite article the way the prompts expect.
func subjectWithType(keyword, typ string) string {
	clean := strings.TrimSpace(strings.TrimPrefix(keyword, definiteArticle))
	if typ == "" {
		return definiteArticle + clean
	}
	if !strings.HasPrefix(typ, definiteArticle) {
		typ = definiteArticle + typ
	}
	return clean + " " + typ
}
