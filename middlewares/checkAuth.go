package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PrayerLoop/initializers"
	"github.com/PrayerLoop/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

var errNoAuthHeader = errors.New("Authorization header is missing")

type authError struct {
	status  int
	message string
}

func (e *authError) Error() string {
	return e.message
}

// authenticate resolves the bearer token on the request to a user profile.
func authenticate(c *gin.Context) (models.UserProfile, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return models.UserProfile{}, errNoAuthHeader
	}

	authToken := strings.Split(authHeader, " ")
	if len(authToken) != 2 || authToken[0] != "Bearer" {
		return models.UserProfile{}, &authError{http.StatusUnauthorized, "Invalid token format"}
	}

	token, err := jwt.Parse(authToken[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(os.Getenv("SECRET")), nil
	})
	if err != nil || !token.Valid {
		return models.UserProfile{}, &authError{http.StatusUnauthorized, "Invalid or expired token"}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.UserProfile{}, &authError{http.StatusUnauthorized, "Invalid token"}
	}

	exp, ok := claims["exp"].(float64)
	if !ok || float64(time.Now().Unix()) > exp {
		return models.UserProfile{}, &authError{http.StatusUnauthorized, "token expired"}
	}

	var user models.UserProfile
	_, err = initializers.DB.From("user_profile").Select("*").
		Where(goqu.C("user_profile_id").Eq(claims["id"]), goqu.C("deleted").IsFalse()).
		ScanStruct(&user)
	if err != nil {
		return models.UserProfile{}, &authError{http.StatusInternalServerError, "Failed to load user profile"}
	}

	if user.User_Profile_ID == 0 {
		return models.UserProfile{}, &authError{http.StatusUnauthorized, "User not found"}
	}

	return user, nil
}

func CheckAuth(c *gin.Context) {
	user, err := authenticate(c)
	if err != nil {
		status := http.StatusUnauthorized
		var ae *authError
		if errors.As(err, &ae) {
			status = ae.status
		}
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
		return
	}

	c.Set("currentUser", user)
	c.Next()
}

// OptionalAuth lets anonymous requests through. A request that does carry
// a token must carry a valid one.
func OptionalAuth(c *gin.Context) {
	user, err := authenticate(c)
	if errors.Is(err, errNoAuthHeader) {
		c.Next()
		return
	}
	if err != nil {
		status := http.StatusUnauthorized
		var ae *authError
		if errors.As(err, &ae) {
			status = ae.status
		}
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
		return
	}

	c.Set("currentUser", user)
	c.Next()
}
