package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"toytopia_back_end/internal/cache"
	"toytopia_back_end/internal/database"
	"toytopia_back_end/internal/models"
	"toytopia_back_end/internal/utils"

	"github.com/google/uuid"
	"github.com/markbates/goth"
)

var (
	ErrEmailTaken         = errors.New("un compte avec cet email existe déjà")
	ErrInvalidCredentials = errors.New("email ou mot de passe incorrect")
	ErrUserNotFound       = errors.New("utilisateur introuvable")
	ErrNotLocalAccount    = errors.New("les comptes OAuth ne gèrent pas de mot de passe ici")
	ErrWeakPassword       = errors.New("le mot de passe doit contenir au moins 8 caractères")
)

const (
	resetTokenTTL   = 30 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour
)

// Provider est le fournisseur de session : il possède l'identité.
// Le reste de l'application ne fait que consommer l'utilisateur courant
// et réagir aux changements d'état d'authentification qu'il émet.
// Construit explicitement au démarrage, passé aux handlers — pas de singleton.
type Provider struct {
	mu        sync.Mutex
	listeners []chan Event
}

// Event décrit un changement d'état d'authentification
type Event struct {
	Type string // "login", "logout", "profile_update"
	User models.User
}

func NewProvider() *Provider {
	return &Provider{}
}

// Subscribe retourne le flux des changements d'état et une fonction de désabonnement
func (p *Provider) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)

	p.mu.Lock()
	p.listeners = append(p.listeners, ch)
	p.mu.Unlock()

	stop := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, l := range p.listeners {
			if l == ch {
				p.listeners = append(p.listeners[:i], p.listeners[i+1:]...)
				break
			}
		}
	}
	return ch, stop
}

func (p *Provider) notify(evt Event) {
	p.mu.Lock()
	listeners := append([]chan Event(nil), p.listeners...)
	p.mu.Unlock()

	for _, ch := range listeners {
		select {
		case ch <- evt:
		default: // abonné saturé, événement perdu
		}
	}
}

// ================== INSCRIPTION / CONNEXION LOCALES ==================

func (p *Provider) SignUp(ctx context.Context, email, password, name, photoURL string) (models.User, string, error) {
	if len(password) < 8 {
		return models.User{}, "", ErrWeakPassword
	}

	// email déjà pris ?
	var existingID string
	err := database.Scylla.Query("SELECT user_id FROM users_by_email WHERE email = ?", email).
		WithContext(ctx).Scan(&existingID)
	if err == nil {
		return models.User{}, "", ErrEmailTaken
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return models.User{}, "", err
	}

	user := models.User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Password: hashedPassword,
		PhotoURL: photoURL,
		Provider: "local",
	}

	now := time.Now()
	if err := database.Scylla.Query(`
		INSERT INTO users (user_id, email, name, password, provider, photo_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, user.ID, user.Email, user.Name, user.Password, user.Provider, user.PhotoURL, now).
		WithContext(ctx).Exec(); err != nil {
		return models.User{}, "", fmt.Errorf("erreur création utilisateur: %w", err)
	}

	if err := database.Scylla.Query(`
		INSERT INTO users_by_email (email, user_id) VALUES (?, ?)
	`, user.Email, user.ID).WithContext(ctx).Exec(); err != nil {
		log.Printf("⚠️ Erreur index users_by_email: %v", err)
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		return models.User{}, "", err
	}

	log.Printf("🎉 Nouveau compte créé: %s", user.Email)
	p.notify(Event{Type: "login", User: user})
	return user, token, nil
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (models.User, string, error) {
	var userID string
	err := database.Scylla.Query("SELECT user_id FROM users_by_email WHERE email = ?", email).
		WithContext(ctx).Scan(&userID)
	if err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	user, err := p.GetUser(ctx, userID)
	if err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	if user.Provider != "local" {
		return models.User{}, "", ErrInvalidCredentials
	}

	valid, err := utils.VerifyPassword(password, user.Password)
	if err != nil || !valid {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		return models.User{}, "", err
	}

	p.notify(Event{Type: "login", User: user})
	return user, token, nil
}

// ================== CONNEXION GOOGLE ==================

// SignInWithGoogle crée ou retrouve le compte lié au profil Google
func (p *Provider) SignInWithGoogle(ctx context.Context, gothUser goth.User) (models.User, string, error) {
	var userID string
	err := database.Scylla.Query("SELECT user_id FROM users_by_email WHERE email = ?", gothUser.Email).
		WithContext(ctx).Scan(&userID)

	var user models.User
	if err == nil {
		user, err = p.GetUser(ctx, userID)
		if err != nil {
			return models.User{}, "", err
		}
	} else {
		user = models.User{
			ID:       uuid.NewString(),
			Name:     gothUser.Name,
			Email:    gothUser.Email,
			PhotoURL: gothUser.AvatarURL,
			Provider: "google",
		}
		now := time.Now()
		if err := database.Scylla.Query(`
			INSERT INTO users (user_id, email, name, password, provider, photo_url, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, user.ID, user.Email, user.Name, "", user.Provider, user.PhotoURL, now).
			WithContext(ctx).Exec(); err != nil {
			return models.User{}, "", fmt.Errorf("erreur création utilisateur Google: %w", err)
		}
		if err := database.Scylla.Query(`
			INSERT INTO users_by_email (email, user_id) VALUES (?, ?)
		`, user.Email, user.ID).WithContext(ctx).Exec(); err != nil {
			log.Printf("⚠️ Erreur index users_by_email: %v", err)
		}
		log.Printf("🎉 Compte Google créé: %s", user.Email)
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		return models.User{}, "", err
	}

	p.notify(Event{Type: "login", User: user})
	return user, token, nil
}

// IssueRefreshToken génère et stocke un refresh token longue durée.
// Un seul refresh token actif par utilisateur : le précédent est écrasé.
func (p *Provider) IssueRefreshToken(userID string) (string, error) {
	token := uuid.NewString()
	if err := cache.StoreRefreshToken(userID, token, refreshTokenTTL); err != nil {
		return "", err
	}
	return token, nil
}

// RefreshSession échange un refresh token valide contre un nouveau JWT
func (p *Provider) RefreshSession(ctx context.Context, userID, refreshToken string) (string, error) {
	stored, err := cache.GetRefreshToken(userID)
	if err != nil || stored != refreshToken {
		return "", ErrInvalidCredentials
	}

	user, err := p.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return utils.GenerateJWT(user)
}

// ================== DÉCONNEXION ==================

func (p *Provider) SignOut(userID string) {
	if err := cache.DeleteRefreshToken(userID); err != nil {
		log.Printf("⚠️ Erreur suppression refresh token: %v", err)
	}
	p.notify(Event{Type: "logout", User: models.User{ID: userID}})
}

// ================== PROFIL ==================

func (p *Provider) GetUser(ctx context.Context, userID string) (models.User, error) {
	var user models.User
	user.ID = userID

	err := database.Scylla.Query(`
		SELECT email, name, password, provider, photo_url FROM users WHERE user_id = ?
	`, userID).WithContext(ctx).Scan(&user.Email, &user.Name, &user.Password, &user.Provider, &user.PhotoURL)
	if err != nil {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile met à jour le nom affiché et la photo de profil
func (p *Provider) UpdateProfile(ctx context.Context, userID, name, photoURL string) (models.User, error) {
	user, err := p.GetUser(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now()
	if err := database.Scylla.Query(`
		UPDATE users SET name = ?, photo_url = ?, updated_at = ? WHERE user_id = ?
	`, name, photoURL, now, userID).WithContext(ctx).Exec(); err != nil {
		return models.User{}, fmt.Errorf("erreur mise à jour profil: %w", err)
	}

	user.Name = name
	user.PhotoURL = photoURL
	p.notify(Event{Type: "profile_update", User: user})
	return user, nil
}

// ================== MOTS DE PASSE ==================

func (p *Provider) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}

	user, err := p.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Provider != "local" {
		return ErrNotLocalAccount
	}

	valid, err := utils.VerifyPassword(oldPassword, user.Password)
	if err != nil || !valid {
		return ErrInvalidCredentials
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	now := time.Now()
	return database.Scylla.Query(`
		UPDATE users SET password = ?, updated_at = ? WHERE user_id = ?
	`, hashed, now, userID).WithContext(ctx).Exec()
}

// ForgotPassword génère un token de réinitialisation et l'envoie par e-mail.
// Ne révèle jamais si l'email existe ou non.
func (p *Provider) ForgotPassword(ctx context.Context, email string) error {
	var userID string
	err := database.Scylla.Query("SELECT user_id FROM users_by_email WHERE email = ?", email).
		WithContext(ctx).Scan(&userID)
	if err != nil {
		log.Printf("🔍 Demande de reset pour email inconnu: %s", email)
		return nil
	}

	token := uuid.NewString()
	if err := cache.StoreResetToken(token, userID, resetTokenTTL); err != nil {
		return err
	}

	baseURL := os.Getenv("FRONTEND_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5173"
	}
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", baseURL, token)

	if err := utils.SendPasswordResetEmail(email, resetLink); err != nil {
		log.Printf("❌ Erreur envoi e-mail de réinitialisation: %v", err)
		return err
	}
	return nil
}

func (p *Provider) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}

	userID, err := cache.ConsumeResetToken(token)
	if err != nil {
		return err
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	now := time.Now()
	if err := database.Scylla.Query(`
		UPDATE users SET password = ?, updated_at = ? WHERE user_id = ?
	`, hashed, now, userID).WithContext(ctx).Exec(); err != nil {
		return err
	}

	log.Printf("🔑 Mot de passe réinitialisé pour l'utilisateur %s", userID)
	return nil
}
