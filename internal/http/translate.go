package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Translator converts text between languages.
type Translator interface {
	TranslateLongText(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// TranslateController exposes reader text translation over HTTP.
type TranslateController struct {
	translator Translator
	sourceLang string
	targetLang string
}

func NewTranslateController(translator Translator, sourceLang, targetLang string) *TranslateController {
	return &TranslateController{
		translator: translator,
		sourceLang: sourceLang,
		targetLang: targetLang,
	}
}

// TranslateRequest is the payload for a translation request.
type TranslateRequest struct {
	Text       string `json:"text" binding:"required"`
	SourceLang string `json:"sourceLang"`
	TargetLang string `json:"targetLang"`
}

// Translate translates a text selection from the reader.
// POST /api/translate
func (controller *TranslateController) Translate(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	sourceLang := req.SourceLang
	if sourceLang == "" {
		sourceLang = controller.sourceLang
	}
	targetLang := req.TargetLang
	if targetLang == "" {
		targetLang = controller.targetLang
	}

	translated, err := controller.translator.TranslateLongText(c.Request.Context(), req.Text, sourceLang, targetLang)
	if err != nil {
		respondError(c, http.StatusBadGateway, "translation service unavailable")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"translated": translated,
		"sourceLang": sourceLang,
		"targetLang": targetLang,
	})
}
