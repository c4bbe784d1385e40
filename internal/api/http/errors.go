// Package http exposes the gateway's HTTP handlers.
package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Classification buckets for upstream failures. Providers do not
// return typed errors for most of these, so classification keys on the
// error text the same way the dashboard's operators triage logs.
type classification struct {
	status  int
	label   string
	message string
}

var classifications = []struct {
	substrings []string
	classification
}{
	{
		substrings: []string{"QUOTA_EXCEEDED", "RESOURCE_EXHAUSTED", "quota"},
		classification: classification{
			status:  http.StatusServiceUnavailable,
			label:   "Quota exceeded",
			message: "Le quota de l'API IA est dépassé. Réessayez dans quelques minutes.",
		},
	},
	{
		substrings: []string{"PERMISSION_DENIED", "API key"},
		classification: classification{
			status:  http.StatusForbidden,
			label:   "Permission denied",
			message: "Clé API invalide ou permissions insuffisantes.",
		},
	},
	{
		substrings: []string{"context length", "token limit", "too many tokens"},
		classification: classification{
			status:  http.StatusRequestEntityTooLarge,
			label:   "Conversation too long",
			message: "La conversation est trop longue. Veuillez démarrer une nouvelle conversation.",
		},
	},
	{
		substrings: []string{"ECONNREFUSED", "connection refused", "timeout", "network"},
		classification: classification{
			status:  http.StatusServiceUnavailable,
			label:   "Upstream unavailable",
			message: "Le serveur est momentanément injoignable. Réessayez dans quelques instants.",
		},
	},
	{
		substrings: []string{"API Error:"},
		classification: classification{
			status:  http.StatusBadGateway,
			label:   "Backend error",
			message: "Le backend a renvoyé une erreur. Vérifiez votre requête et réessayez.",
		},
	},
}

var defaultClassification = classification{
	status:  http.StatusInternalServerError,
	label:   "Internal server error",
	message: "Une erreur interne s'est produite. Réessayez plus tard.",
}

// Classify maps an upstream error to an HTTP status and a user-facing
// body. Raw error detail is only exposed in development.
func Classify(err error, development bool) (int, gin.H) {
	text := err.Error()
	c := classify(text)

	body := gin.H{
		"error":   c.label,
		"message": c.message,
	}
	if development {
		body["details"] = text
	}
	return c.status, body
}

func classify(text string) classification {
	for _, candidate := range classifications {
		for _, sub := range candidate.substrings {
			if strings.Contains(text, sub) {
				return candidate.classification
			}
		}
	}
	return defaultClassification
}
