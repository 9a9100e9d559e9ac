package http

import "github.com/gin-gonic/gin"

const authUserIDKey = "auth_user_id"

func setUserID(c *gin.Context, userID int64) {
	c.Set(authUserIDKey, userID)
}

func currentUserID(c *gin.Context) (int64, bool) {
	value, ok := c.Get(authUserIDKey)
	if !ok {
		return 0, false
	}
	userID, ok := value.(int64)
	return userID, ok
}
