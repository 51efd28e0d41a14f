package i18n

// English is complete; other languages fall back to it key by key.
var translations = map[Language]map[string]string{
	English: {
		"common.back":                        "Back",
		"common.next":                        "Next",
		"common.finish":                      "Finish",
		"common.loading":                     "Loading...",
		"common.copied":                      "Copied to clipboard!",
		"common.start_over":                  "Start over",
		"common.confirm_restart":             "Start over? Unsaved progress will be lost.",
		"common.compiling":                   "Compiling...",
		"common.undo_done":                   "Undone. Step: {step}",
		"common.redo_done":                   "Redone. Step: {step}",
		"common.nothing_to_undo":             "Nothing to undo.",
		"common.nothing_to_redo":             "Nothing to redo.",
		"common.busy":                        "Another action is still running.",
		"common.error.compilation_failed":    "Compilation failed, please try again.",
		"common.error.connection_refused":    "Error: connection refused",
		"common.error.request_failed":        "Error: request failed",
		"home.title":                         "Persona Forge",
		"home.subtitle":                      "Summon your own AI character",
		"home.status":                        "Step {step} · snapshot {index}/{total}",
		"vibe.title":                         "Vibe Mode",
		"vibe.intro_msg":                     "Write down anything that comes to mind: keywords, #tags, music or...",
		"vibe.modify_msg":                    "Welcome back, what would you like to change?",
		"vibe.sources":                       "Sources",
		"vibe.compiling_desc":                "Structuring your ideas into a persona...",
		"inspiration.title":                  "Dig into my thoughts...",
		"inspiration.used_count":             "✓ {count} questions used",
		"inspiration.expand_library":         "Expand library",
		"inspiration.optimize_library":       "AI optimize",
		"inspiration.error.unavailable":      "Sorry, the AI muse is unavailable right now.",
		"inspiration.daily_muse_toast":       "Daily inspiration updated!",
		"inspiration.remix_success_toast":    "Inspiration library remixed and updated!",
		"inspiration.reset_done":             "Inspiration library restored to default.",
		"inspiration.example_label":          "For example:",
		"crys.title":                         "Crystallized Persona",
		"crys.subtitle":                      "The AI has organized your ideas. Review or adjust them.",
		"crys.card_appearance":               "Appearance",
		"crys.card_personality":              "Personality",
		"crys.card_backstory":                "Backstory",
		"crys.card_speechStyle":              "Speech Style",
		"crys.card_behaviors":                "Behaviors",
		"crys.error.regeneration_failed":     "Regeneration failed",
		"crys.error.load_failed_desc":        "Could not load the structured persona.",
		"check.title":                        "Full Check",
		"check.analyzing_desc":               "Running a three-layer scan: logic, bias, depth...",
		"check.good":                         "Logic check: good",
		"check.issues":                       "Logical conflicts detected",
		"check.items_found":                  "{count} items found",
		"check.issue_label":                  "Conflict:",
		"check.suggestion_label":             "Suggestion:",
		"check.error.action_failed":          "Action failed, please try again.",
		"check.error.remix_failed":           "Remix failed, please try again.",
		"check.depth_title":                  "Depth & Dimensionality",
		"check.bias_title":                   "Bias Detection",
		"check.depth_score":                  "Completeness Score",
		"check.missing_elements":             "Suggestions to deepen the character",
		"check.bias_none":                    "No major biases detected.",
		"check.bias_detected":                "Potential Bias Detected",
		"check.logic_title":                  "Logic & Consistency",
		"check.standards_title":              "Reference Standards",
		"check.comparison_title":             "Comparison Report",
		"check.remix_modal.title":            "Persona Remix",
		"check.remix_modal.field_inner_voice":   "Inner Voice",
		"check.remix_modal.field_core_wound":    "Core Wound",
		"check.remix_modal.field_secret_desire": "Secret Desire",
		"check.remix_modal.field_worldview":     "Worldview",
		"sim.title":                          "Simulation",
		"sim.chat":                           "Chat",
		"sim.quotes":                         "Quotes",
		"sim.turns_label":                    "Turns:",
		"sim.error_message":                  "[Error]",
		"final.title":                        "Persona Crystal",
		"final.subtitle":                     "Ready to deploy",
		"final.export_options":               "Export options",
		"final.export_md":                    "Markdown (.md)",
		"final.export_txt":                   "Text (.txt)",
		"final.export_json":                  "JSON (.json)",
		"final.export_written":               "Wrote {path}",
		"director.subtitle":                  "Director Mode • Modules 1-4",
		"director.sources":                   "Sources",
		"director.error_offline":             "The director is offline, please try again later.",
		"director.skip_text":                 "I have no idea for this one, please decide based on the character's feel (Skip & Auto-fill)",
		"director.system.ready_prompt":       "System ready. Briefly introduce yourself and ask only the first question.",
		"director.system.compile_prompt":     "The interview is complete. Compile the final system prompt strictly following the [Output Format] (role definition, interaction protocol, etc.).",
		"antibias.title":                     "Anti-Bias Mode",
		"antibias.intro_msg":                 "Paste a passage and I will look for hidden blind spots in its logic.",
		"antibias.init_prompt":               "I need to analyse psychological bias in a piece of content. Please start the deconstruction protocol.",
		"antibias.context_prompt":            "Protocol Started with Context.",
		"antibias.unsure_prompt":             "I'm not sure, it feels vague. Please help me analyse the possible intent.",
		"antibias.compile_prompt":            "Analysis complete. Please give the de-biasing summary and recommendations.",
		"tool.title":                         "Tool Mode",
		"tool.init_prompt":                   "I need to define a new AI tool. Please guide me through the whole process.",
		"tool.compile_prompt":                "Data collection complete. Output the final tool directive JSON/Block now.",
		"architect.title":                    "Architect Mode",
		"theme.changed":                      "Theme: {theme}",
		"lang.changed":                       "Language: {lang}",
	},
	TraditionalChinese: {
		"common.back":                        "返回",
		"common.next":                        "下一步",
		"common.finish":                      "完成",
		"common.loading":                     "載入中...",
		"common.copied":                      "已複製到剪貼簿！",
		"common.start_over":                  "重新開始",
		"common.confirm_restart":             "確定要重新開始嗎？所有未儲存的進度將會遺失。",
		"common.compiling":                   "編譯中...",
		"common.undo_done":                   "已復原。步驟：{step}",
		"common.redo_done":                   "已重做。步驟：{step}",
		"common.nothing_to_undo":             "沒有可以復原的操作。",
		"common.nothing_to_redo":             "沒有可以重做的操作。",
		"common.busy":                        "另一個操作仍在進行中。",
		"common.error.compilation_failed":    "編譯失敗，請重試。",
		"common.error.connection_refused":    "錯誤：連線被拒",
		"common.error.request_failed":        "錯誤：請求處理失敗",
		"home.title":                         "人格鍊成",
		"home.subtitle":                      "召喚你的專屬 AI 角色",
		"home.status":                        "步驟 {step} · 快照 {index}/{total}",
		"vibe.title":                         "靈感模式",
		"vibe.intro_msg":                     "有想到甚麼都可以寫上來喔, 無論是關鍵詞 #標籤 音樂或...",
		"vibe.modify_msg":                    "歡迎回來，想調整些什麼呢？",
		"vibe.sources":                       "資料來源",
		"vibe.compiling_desc":                "正在將您的想法結構化為人格...",
		"inspiration.title":                  "挖掘我的思緒...",
		"inspiration.used_count":             "✓ 已使用 {count} 題",
		"inspiration.expand_library":         "擴充題庫",
		"inspiration.optimize_library":       "AI 最佳化",
		"inspiration.error.unavailable":      "抱歉，AI 繆斯暫時無法連線。",
		"inspiration.daily_muse_toast":       "每日靈感已更新！",
		"inspiration.remix_success_toast":    "靈感庫已 Remix 並更新！",
		"inspiration.reset_done":             "靈感庫已重置為預設。",
		"inspiration.example_label":          "例如：",
		"crys.title":                         "靈感結晶",
		"crys.subtitle":                      "AI 已整理您的想法，請檢視或調整。",
		"crys.card_appearance":               "外觀",
		"crys.card_personality":              "性格",
		"crys.card_backstory":                "背景故事",
		"crys.card_speechStyle":              "說話風格",
		"crys.card_behaviors":                "行為模式",
		"crys.error.regeneration_failed":     "重新生成失敗",
		"crys.error.load_failed_desc":        "無法載入結構化人格。",
		"check.title":                        "全方位檢測",
		"check.analyzing_desc":               "AI 正在進行三層式深度掃描：邏輯、偏誤、深度...",
		"check.good":                         "邏輯檢查：良好",
		"check.issues":                       "檢測到邏輯矛盾",
		"check.items_found":                  "找到 {count} 個項目",
		"check.issue_label":                  "矛盾點：",
		"check.suggestion_label":             "AI 建議：",
		"check.error.action_failed":          "操作失敗，請重試。",
		"check.error.remix_failed":           "Remix 失敗，請重試。",
		"check.depth_title":                  "角色立體度",
		"check.bias_title":                   "偏誤檢測",
		"check.depth_score":                  "完成度",
		"check.missing_elements":             "深度補充建議",
		"check.bias_none":                    "未發現明顯的刻板印象或偏誤。",
		"check.bias_detected":                "檢測到潛在偏誤傾向",
		"check.logic_title":                  "邏輯與一致性",
		"check.standards_title":              "參考標準",
		"check.comparison_title":             "比對分析報告",
		"check.remix_modal.title":            "人格 Remix",
		"check.remix_modal.field_inner_voice":   "內心戲",
		"check.remix_modal.field_core_wound":    "核心創傷",
		"check.remix_modal.field_secret_desire": "隱藏渴望",
		"check.remix_modal.field_worldview":     "世界觀",
		"sim.title":                          "模擬測試平台",
		"sim.chat":                           "對話模擬",
		"sim.quotes":                         "語錄生成",
		"sim.turns_label":                    "回合數：",
		"sim.error_message":                  "[錯誤]",
		"final.title":                        "人格結晶",
		"final.subtitle":                     "準備部署",
		"final.export_options":               "匯出選項",
		"final.export_written":               "已寫入 {path}",
		"director.subtitle":                  "導演模式 • 模組 1-4",
		"director.sources":                   "資料來源",
		"director.error_offline":             "導演離線了，請稍後再試。",
		"director.skip_text":                 "這題我沒想法，請根據角色感覺幫我決定 (Skip & Auto-fill)",
		"director.system.ready_prompt":       "系統就緒。請簡短自我介紹，並只問第一個問題。",
		"director.system.compile_prompt":     "訪談已完成。請嚴格依照 [輸出格式]（角色定義、互動協議等）編譯最終的系統提示。",
		"antibias.title":                     "反偏誤模式",
		"antibias.intro_msg":                 "貼上一段話，我會幫你找出隱藏的邏輯盲點。",
		"antibias.init_prompt":               "我需要分析一段內容中的心理學偏誤，請啟動解構協議。",
		"antibias.context_prompt":            "Protocol Started with Context.",
		"antibias.unsure_prompt":             "我不確定，感覺有點模糊。請協助我分析可能的意圖。",
		"antibias.compile_prompt":            "分析完成，請提供去偏誤總結與建議。",
		"tool.title":                         "工具模式",
		"tool.init_prompt":                   "我需要定義一個新的 AI 工具，請引導我完成整個流程。",
		"tool.compile_prompt":                "資料收集完成，請立即輸出最終的工具指令 JSON/Block。",
		"architect.title":                    "架構師模式",
		"theme.changed":                      "主題：{theme}",
		"lang.changed":                       "語言：{lang}",
	},
	SimplifiedChinese: {
		"common.back":                     "返回",
		"common.next":                     "下一步",
		"home.title":                      "人格炼成",
		"vibe.intro_msg":                  "想到什么都可以写上来哦，无论是关键词、#标签、音乐或者...",
		"vibe.modify_msg":                 "欢迎回来，想调整些什么呢？",
		"director.error_offline":          "导演离线了，请稍后再试。",
		"common.error.compilation_failed": "编译失败，请重试。",
	},
	Japanese: {
		"common.back":            "戻る",
		"common.next":            "次へ",
		"home.title":             "ペルソナ錬成",
		"vibe.intro_msg":         "思いついたことを何でも書いてください。キーワード、#タグ、音楽など...",
		"vibe.modify_msg":        "おかえりなさい。何を調整しますか？",
		"director.error_offline": "ディレクターはオフラインです。後でもう一度お試しください。",
	},
	Korean: {
		"common.back":    "뒤로",
		"common.next":    "다음",
		"vibe.intro_msg": "떠오르는 건 뭐든 적어 주세요. 키워드, #태그, 음악 등...",
		"vibe.modify_msg": "다시 오셨네요. 무엇을 바꿔 볼까요?",
	},
	German: {
		"common.back":     "Zurück",
		"common.next":     "Weiter",
		"vibe.intro_msg":  "Schreib auf, was dir einfällt: Stichwörter, #Tags, Musik oder...",
		"vibe.modify_msg": "Willkommen zurück, was möchtest du ändern?",
	},
	Spanish: {
		"common.back":     "Atrás",
		"common.next":     "Siguiente",
		"vibe.intro_msg":  "Escribe lo que se te ocurra: palabras clave, #etiquetas, música o...",
		"vibe.modify_msg": "Bienvenido de nuevo, ¿qué te gustaría cambiar?",
	},
	French: {
		"common.back":     "Retour",
		"common.next":     "Suivant",
		"vibe.intro_msg":  "Écris tout ce qui te vient à l'esprit : mots-clés, #tags, musique ou...",
		"vibe.modify_msg": "Bon retour, que veux-tu modifier ?",
	},
	Portuguese: {
		"common.back":     "Voltar",
		"common.next":     "Próximo",
		"vibe.intro_msg":  "Escreva o que vier à mente: palavras-chave, #tags, música ou...",
		"vibe.modify_msg": "Bem-vindo de volta, o que gostaria de ajustar?",
	},
}
