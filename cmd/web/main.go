// @title           Tranzit API
// @version         1.0
// @description     API маркетплейса грузоперевозок: клиенты, водители, заявки.
// @contact.name    Tranzit
// @contact.email   support@tranzit.kz
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:4000
// @BasePath        /

package main

import "tranzit_backend/internal/app"

func main() {
	app.Run()
}
