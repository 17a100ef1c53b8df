package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/internal/middleware"
	"github.com/taskhub-dev/taskhub/internal/services"
	"github.com/taskhub-dev/taskhub/internal/types"
)

// renderServiceError maps the service error taxonomy onto the boundary
// contract. Browser-style clients get the redirect flow (sign-in for guests,
// landing area for non-owners, back to the resource for a failed operation);
// JSON clients get status codes. resourcePath is where OperationFailed sends
// the caller, distinguishing "allowed but failed" from "not allowed".
func renderServiceError(ctx *gin.Context, err error, resourcePath string) {
	var serviceErr *services.Error

	if !errors.As(err, &serviceErr) {
		log.Printf("Unexpected service error: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	wantsJSON := middleware.WantsJSON(ctx)

	switch serviceErr.Kind {
	case services.Unauthenticated:
		if wantsJSON {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Sign in required"})
			return
		}
		ctx.Redirect(http.StatusFound, types.SignInPath)

	case services.Unauthorized:
		if wantsJSON {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
			return
		}
		ctx.Redirect(http.StatusSeeOther, types.LandingPath)

	case services.ValidationFailed:
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": serviceErr.Fields})

	case services.NotFound:
		ctx.JSON(http.StatusNotFound, gin.H{"error": serviceErr.Message})

	case services.OperationFailed:
		if wantsJSON {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": serviceErr.Message})
			return
		}
		setFlash(ctx, "alert", serviceErr.Message)
		ctx.Redirect(http.StatusSeeOther, resourcePath)

	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// setFlash carries a one-shot message across the redirect, cookie-based since
// the API keeps no server-side session.
func setFlash(ctx *gin.Context, kind, message string) {
	ctx.SetCookie("flash_"+kind, message, 60, "/", Domain, false, false)
}
