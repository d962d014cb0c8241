package restapi

import (
	"net/http"
	"strings"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/infrastructure/configloader"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const swaggerSpecRoute = "/docs/swagger.yaml"

// TokenListStats reports the size of the loaded token list.
type TokenListStats interface {
	Len() int
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status    string `json:"status"`
	Network   string `json:"network"`
	TokenList int    `json:"tokenListSize"`
}

// SetupRouter builds the gin engine with every route of the service.
func SetupRouter(
	swagger configloader.SwaggerConfig,
	portfolioHandler *PortfolioHandler,
	walletHandler *WalletHandler,
	networks port.NetworkDefinitionProvider,
	tokens TokenListStats,
	log port.Logger,
) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", UserIDHeader}
	router.Use(cors.New(corsConfig))
	router.Use(requestLogger(log))
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1", requireUser())
	{
		v1.GET("/balances/wallet/:id", portfolioHandler.GetWalletBalanceHandler)
		v1.GET("/balances/aggregate", portfolioHandler.GetAggregatedBalanceHandler)

		v1.POST("/wallets", walletHandler.CreateWalletHandler)
		v1.GET("/wallets", walletHandler.ListWalletsHandler)
		v1.GET("/wallets/:id", walletHandler.GetWalletHandler)
		v1.PATCH("/wallets/:id", walletHandler.UpdateWalletHandler)
		v1.DELETE("/wallets/:id", walletHandler.DeleteWalletHandler)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:    "ok",
			Network:   networks.Supported().Identifier,
			TokenList: tokens.Len(),
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if swagger.Enabled {
		router.StaticFile(swaggerSpecRoute, swagger.SpecFile)
		path := "/" + strings.Trim(swagger.Path, "/")
		router.GET(path+"/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL(swaggerSpecRoute)))
		log.Info("Swagger UI enabled", "path", path+"/index.html")
	}

	return router
}
