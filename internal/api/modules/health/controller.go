package health

import (
	"github.com/gin-gonic/gin"

	"github.com/isitmyturn/isitmyturn/pkg/sdk"
)

// Return status of the API
func getStatus(c *gin.Context) {
	res := sdk.NewSuccess("OK")
	c.JSON(res.AsGinResponse())
}
