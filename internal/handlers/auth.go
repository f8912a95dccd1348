package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"toytopia_back_end/internal/services"
	"toytopia_back_end/internal/session"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Provider *session.Provider
}

// Register crée un compte local et retourne directement un JWT
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	user, token, err := h.Provider.SignUp(c.Request.Context(), req.Email, req.Password, req.Name, "")
	if err != nil {
		switch {
		case errors.Is(err, session.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, session.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("❌ Erreur inscription: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'inscription"})
		}
		return
	}

	refreshToken, err := h.Provider.IssueRefreshToken(user.ID)
	if err != nil {
		log.Printf("⚠️ Refresh token non émis pour %s: %v", user.ID, err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Compte créé avec succès",
		"token":         token,
		"refresh_token": refreshToken,
		"user":          user,
	})
}

// Login authentifie un compte local
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	user, token, err := h.Provider.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	refreshToken, err := h.Provider.IssueRefreshToken(user.ID)
	if err != nil {
		log.Printf("⚠️ Refresh token non émis pour %s: %v", user.ID, err)
	}

	log.Printf("✅ Connexion de %s", user.Email)
	c.JSON(http.StatusOK, gin.H{
		"token":         token,
		"refresh_token": refreshToken,
		"user":          user,
	})
}

// Refresh échange un refresh token valide contre un nouveau JWT
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		UserID       string `json:"userId" binding:"required"`
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	token, err := h.Provider.RefreshSession(c.Request.Context(), req.UserID, req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token invalide"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Logout signale la déconnexion au fournisseur de session
func (h *AuthHandler) Logout(c *gin.Context) {
	userID := c.GetString("user_id")
	h.Provider.SignOut(userID)

	log.Printf("👋 Déconnexion de %s", userID)
	c.JSON(http.StatusOK, gin.H{"message": "Déconnecté"})
}

// Me retourne le profil de l'utilisateur authentifié
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString("user_id")

	user, err := h.Provider.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile met à jour le nom affiché et la photo de profil
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		Name     string `json:"name" binding:"required"`
		PhotoURL string `json:"photoUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	user, err := h.Provider.UpdateProfile(c.Request.Context(), userID, req.Name, req.PhotoURL)
	if err != nil {
		if errors.Is(err, session.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
			return
		}
		log.Printf("❌ Erreur mise à jour profil: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour profil"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profil mis à jour",
		"user":    user,
	})
}

// UploadAvatar stocke la photo de profil dans MinIO puis met à jour le compte
func (h *AuthHandler) UploadAvatar(c *gin.Context) {
	userID := c.GetString("user_id")

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier manquant"})
		return
	}
	defer file.Close()

	url, err := services.UploadAvatar(c.Request.Context(), userID, file, header)
	if err != nil {
		log.Printf("❌ Erreur upload avatar: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'upload"})
		return
	}

	user, err := h.Provider.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}
	if _, err := h.Provider.UpdateProfile(c.Request.Context(), userID, user.Name, url); err != nil {
		log.Printf("⚠️ Avatar uploadé mais profil non mis à jour: %v", err)
	}

	log.Printf("📤 Avatar uploadé pour %s: %s", userID, url)
	c.JSON(http.StatusOK, gin.H{
		"message":  "Avatar mis à jour",
		"photoUrl": url,
	})
}

// AvatarURL génère une URL de lecture temporaire quand le bucket est privé
func (h *AuthHandler) AvatarURL(c *gin.Context) {
	object := c.Query("object")
	if object == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre object requis"})
		return
	}

	url, err := services.PresignedAvatarURL(c.Request.Context(), object, 15*time.Minute)
	if err != nil {
		log.Printf("❌ Erreur URL signée: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":        url,
		"expires_in": int((15 * time.Minute).Seconds()),
	})
}

// ChangePassword change le mot de passe d'un compte local
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		OldPassword string `json:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if err := h.Provider.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, session.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, session.ErrNotLocalAccount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, session.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Ancien mot de passe incorrect"})
		default:
			log.Printf("❌ Erreur changement de mot de passe: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur changement de mot de passe"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Mot de passe modifié"})
}

// ForgotPassword envoie un lien de réinitialisation. Répond toujours 200
// pour ne pas révéler l'existence d'un compte.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if err := h.Provider.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		log.Printf("❌ Erreur demande de réinitialisation: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Si un compte existe avec cet email, un lien de réinitialisation a été envoyé",
	})
}

// ResetPassword consomme le token reçu par e-mail
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if err := h.Provider.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, session.ErrWeakPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token invalide ou expiré"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Mot de passe réinitialisé"})
}
