package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"video-bot/domain/dto"
)

// Auth protects the operator endpoints with the session token issued by the
// login handler.
func Auth(secretKey string) gin.HandlerFunc {
	var res dto.Res
	res.ResponseCode = "401"
	res.ResponseMessage = "Unauthorized"

	return func(ctx *gin.Context) {
		authorization := ctx.Request.Header.Get("Authorization")
		if authorization == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}
		auth := strings.Split(authorization, "Bearer ")
		if len(auth) != 2 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(auth[1], claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		})
		if err != nil || !token.Valid {
			res := res
			res.ResponseMessage = reason(err)
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}

		ctx.Next()
	}
}

func reason(err error) string {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		if ve.Errors&jwt.ValidationErrorMalformed != 0 {
			return "That's not even a token"
		}
		if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
			return "Timing is everything"
		}
		return fmt.Sprintf("Couldn't handle this token:%v", err)
	}
	return "Unauthorized"
}
