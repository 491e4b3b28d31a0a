package httpserver

import "github.com/sbateeni/legal-analysis-nextjs/internal/domain/stages"

// apiDoc is served by GET /api.
func apiDoc() map[string]any {
	first, _ := stages.ByIndex(0)
	return map[string]any{
		"name":        "Legal Analysis API",
		"version":     "1.0",
		"description": "API for legal text analysis using Google's Gemini AI",
		"endpoints": map[string]any{
			"/analyze": map[string]any{
				"method":      "POST",
				"description": "Analyze legal text through 12 stages",
				"parameters": map[string]any{
					"text":    "The legal text to analyze",
					"stage":   "Stage index (0-11) to analyze",
					"case_id": "Optional case to record the result in",
				},
				"headers": map[string]any{
					"X-API-Key": "Your Google API key",
				},
				"response": "Server-sent events (SSE) with analysis results",
				"stream": map[string]any{
					"format": "Unnamed frames, each a single 'data: <json>' line",
					"frames": []string{
						`{"status":"started","stage_index":0,"total_stages":12}`,
						"the stage result (status completed or error, with analysis)",
						`{"status":"completed","stage_index":0,"total_stages":12}`,
					},
				},
			},
			"/analyze_stage": map[string]any{
				"method":      "POST",
				"description": "Analyze one stage and return the result as JSON",
				"parameters": map[string]any{
					"text":      "The legal text to analyze",
					"stage_idx": "Stage index (0-11) to analyze",
					"api_key":   "Your Google API key",
					"case_id":   "Optional case to record the result in",
				},
				"response": map[string]any{
					"status": "success/error",
					"result": "Analysis text on success",
					"error":  "Error message on failure",
				},
			},
			"/set_api_key": map[string]any{
				"method":      "POST",
				"description": "Validate an API key and store it in your session",
				"parameters":  map[string]any{"api_key": "Your Google API key"},
			},
			"/clear_api_key": map[string]any{
				"method":      "POST",
				"description": "Remove the API key from your session",
			},
			"/test_api": map[string]any{
				"method":      "POST",
				"description": "Test if your API key is valid",
				"parameters": map[string]any{
					"api_key": "Your Google API key to test",
				},
				"response": map[string]any{
					"status":  "success/error",
					"message": "Result message",
					"details": "Detailed information",
					"help":    "Helpful information if there's an error",
				},
			},
			"/cases": map[string]any{
				"method":      "GET, POST",
				"description": "List or create the legal cases of your session",
			},
			"/cases/{id}": map[string]any{
				"method":      "GET, DELETE",
				"description": "Read or delete one case with its analysed stages",
			},
			"/cases/{id}/export": map[string]any{
				"method":      "POST",
				"description": "Export a case report to object storage and return its URL",
			},
		},
		"api_key_instructions": map[string]any{
			"how_to_get": []string{
				"1. قم بزيارة Google AI Studio: https://makersuite.google.com/app/apikey",
				"2. سجل الدخول باستخدام حساب Google الخاص بك",
				"3. انقر على 'Create API Key'",
				"4. انسخ المفتاح الجديد",
			},
			"how_to_use": []string{
				"1. قم بإرسال المفتاح في رأس الطلب X-API-Key",
				"2. أو قم بتعيينه في الجلسة باستخدام نقطة النهاية /set_api_key",
				"3. أو أرسله في جسم الطلب إلى /analyze_stage",
				"4. يمكنك اختبار المفتاح باستخدام نقطة النهاية /test_api",
			},
			"requirements": []string{
				"يجب أن يكون المفتاح صالحاً وغير منتهي الصلاحية",
				"يجب أن يكون لديك حساب Google مفعل",
				"يجب أن تكون في منطقة مدعومة من Google AI",
			},
			"troubleshooting": []string{
				"إذا كان المفتاح غير صالح، تأكد من نسخه بشكل صحيح",
				"إذا انتهت صلاحية المفتاح، قم بإنشاء مفتاح جديد",
				"إذا تجاوزت الحد المسموح به، انتظر أو قم بترقية حسابك",
				"استخدم نقطة النهاية /test_api لاختبار المفتاح قبل استخدامه",
			},
		},
		"example": map[string]any{
			"request": map[string]any{
				"url":    "/analyze",
				"method": "POST",
				"headers": map[string]any{
					"Content-Type": "application/json",
					"X-API-Key":    "your-api-key-here",
				},
				"body": map[string]any{
					"text":  "نص قانوني للتحليل...",
					"stage": 0,
				},
			},
			"response": map[string]any{
				"data": map[string]any{
					"stage":        first.Name,
					"description":  first.Description,
					"key_points":   first.KeyPoints,
					"analysis":     "تحليل النص...",
					"status":       "completed",
					"stage_index":  0,
					"total_stages": stages.Count,
				},
			},
		},
	}
}
