// @title           FavorX API
// @version         1.0
// @description     Peer-to-peer favor exchange: skill listings, karma reputation and geo-proximity matching.
// @contact.name    FavorX
// @contact.email   support@favorx.app
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:4000
// @BasePath        /api/v1

// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization

package main

import "favorx_backend/internal/app"

func main() {
	app.Run()
}
