package main

import "trip-approval-backend/cmd"

// @title           Trip Approval API
// @version         1.0
// @description     Согласование командировок и административных заявок
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cmd.Execute()
}
