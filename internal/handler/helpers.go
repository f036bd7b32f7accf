package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/popupcity/portal_api/internal/utils"
)

// paramInt reads a positive integer path parameter. On failure it writes a
// 400 response and returns false.
func paramInt(c *gin.Context, name string) (int, bool) {
	return parseID(c, c.Param(name), name)
}

// queryInt reads a positive integer query parameter.
func queryInt(c *gin.Context, name string) (int, bool) {
	return parseID(c, c.Query(name), name)
}

func parseID(c *gin.Context, raw, name string) (int, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid "+name)
		return 0, false
	}
	return id, true
}

func invalidBody(c *gin.Context) {
	utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
}
