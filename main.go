package main

import (
	"clinic-connect/booking"
	"clinic-connect/configuration"
	"clinic-connect/controllers"
	"clinic-connect/gateway"
	"clinic-connect/obfuscate"
	"clinic-connect/routes"
	"clinic-connect/schedule"
	"clinic-connect/session"
)

func Init() {
	configuration.LoadConfig()
	configuration.InitRedis()
}

func main() {
	//Perform application initialization
	Init()

	api := gateway.New(configuration.App.APIBaseURL)
	resolver := schedule.NewResolver(api)
	codec := obfuscate.New(configuration.App.Obfuscation.Prefix, configuration.App.Obfuscation.Secret)

	store := session.NewRedisStore()
	store.Rehydrate()

	bookingWF := booking.NewWorkflow(api, resolver, booking.NewRedisStateStore(), booking.NewRazorpayGateway(), configuration.App.Razorpay.KeyID)
	bookingWF.Notify = booking.SendConfirmation

	controllers.Setup(api, store, resolver, bookingWF, codec)

	r := routes.SetupRoutes()
	if err := r.Run(configuration.App.Server.Port); err != nil {
		panic(err)
	}
}
