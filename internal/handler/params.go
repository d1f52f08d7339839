package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/catalog_api/internal/utils"
)

// paramID parses the :id path parameter. Ids must fit the integer primary
// key columns. On failure it writes a 400 with message and reports false.
func paramID(c *gin.Context, message string) (int, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, 400, utils.CodeInvalidID, message)
		return 0, false
	}
	return int(id), true
}
