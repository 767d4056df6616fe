package main

import (
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"regexp"
	"time"

	"sbs/src/boot"
	"sbs/src/booking"
	"sbs/src/catalog"
	"sbs/src/config"
	"sbs/src/controllers"
	"sbs/src/lib"
	"sbs/src/middlewares"
	"sbs/src/notify"
	"sbs/src/schedule"
	"sbs/src/survey"
	"sbs/src/sweep"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
)

const (
	apiPrefix string = "/api/v1"
)

var serviceCodeValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	code, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, found := catalog.Lookup(code)
	return found
}

var bookingDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	day, err := time.Parse(config.DATE_FORMAT, date)
	if err != nil {
		return false
	}
	today := time.Now().In(config.SalonLocation()).Format(config.DATE_FORMAT)
	return day.Format(config.DATE_FORMAT) >= today
}

var clockTimeValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := schedule.ParseClock(value)
	return err == nil
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

func publicRoutes(g *gin.Engine) {
	apiv1 := apiv1Group(g)
	apiv1.
		GET("/services", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"services": catalog.List()})
		}).
		GET("/schedule", func(ctx *gin.Context) {
			reservations, status, err := controllers.GetWeekSchedule(ctx)
			if err != nil {
				log.Printf("Error on GetWeekSchedule: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"reservations": reservations})
		}).
		POST("/reservations/:id/cancel-by-token", func(ctx *gin.Context) {
			reservation, status, err := controllers.CancelReservationByToken(ctx)
			if err != nil {
				log.Printf("Error on CancelReservationByToken: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"reservation": reservation})
		})

	auth := apiv1.Group("/auth")
	auth.
		POST("/signup", func(ctx *gin.Context) {
			token, status, err := controllers.AuthSignup(ctx)
			if err != nil {
				log.Printf("Error on AuthSignup: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"token": token})
		}).
		POST("/login", func(ctx *gin.Context) {
			token, status, err := controllers.AuthLogin(ctx)
			if err != nil {
				log.Printf("Error on AuthLogin: %s\n", err.Error())
				ctx.Status(status)
				return
			}
			ctx.JSON(status, gin.H{"token": token})
		})
}

func webhookRoutes(g *gin.Engine) {
	apiv1 := apiv1Group(g)
	webhooks := apiv1.Group("/webhooks")
	webhooks.
		POST("/twilio", controllers.TwilioInboundWebhook).
		GET("/whatsapp", controllers.MetaVerifyWebhook).
		POST("/whatsapp", controllers.MetaInboundWebhook)
}

func authorizedRoutes(g *gin.Engine) {
	authorized := g.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	{
		authorized.
			POST("/reservations", func(ctx *gin.Context) {
				reservation, status, err := controllers.CreateReservation(ctx)
				if err != nil {
					log.Printf("Error on CreateReservation: %s\n", err.Error())
					ctx.JSON(status, gin.H{"error": err.Error()})
					return
				}
				ctx.JSON(status, gin.H{"reservation": reservation})
			}).
			GET("/reservations", func(ctx *gin.Context) {
				reservations, status, err := controllers.ListReservations(ctx)
				if err != nil {
					log.Printf("Error on ListReservations: %s\n", err.Error())
					ctx.JSON(status, gin.H{"error": err.Error()})
					return
				}
				ctx.JSON(status, gin.H{"reservations": reservations})
			}).
			POST("/reservations/:id/cancel", func(ctx *gin.Context) {
				reservation, status, err := controllers.CancelReservation(ctx)
				if err != nil {
					log.Printf("Error on CancelReservation: %s\n", err.Error())
					ctx.JSON(status, gin.H{"error": err.Error()})
					return
				}
				ctx.JSON(status, gin.H{"reservation": reservation})
			}).
			DELETE("/reservations/:id", func(ctx *gin.Context) {
				status, err := controllers.DeleteReservation(ctx)
				if err != nil {
					log.Printf("Error on DeleteReservation: %s\n", err.Error())
					ctx.JSON(status, gin.H{"error": err.Error()})
					return
				}
				ctx.Status(status)
			})
	}
}

// notifyChannel picks the customer-facing messaging channel from config.
func notifyChannel() notify.Channel {
	switch os.Getenv("NOTIFY_CHANNEL") {
	case "sms":
		return &notify.SNSChannel{}
	default:
		return notify.NewWhatsAppChannel()
	}
}

// calendarClient returns the calendar capability, or nil when sync is
// disabled.
func calendarClient() *lib.GoogleCalendar {
	if os.Getenv("CALENDAR_SYNC") == "false" {
		return nil
	}
	return &lib.GoogleCalendar{}
}

func initLogger() {
	cwd, _ := os.Getwd()
	serverLogs := path.Join(cwd, "logs", "server.log")
	apiLogs := path.Join(cwd, "logs", "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	initLogger()

	gdb := boot.InitDb()

	channel := notifyChannel()
	dispatcher := notify.NewDispatcher(gdb, channel)
	salon := notify.EmailSalonNotifier{}
	var cal booking.Calendar
	if c := calendarClient(); c != nil {
		cal = c
	}

	bookingService := booking.NewService(gdb, cal, dispatcher, salon)
	engine := survey.NewEngine(survey.NewStore(gdb), lib.GetRedisClient(), cal, dispatcher, salon)
	controllers.Init(bookingService, engine)

	sweeper := sweep.NewSweeper(gdb, dispatcher, config.SalonLocation())
	boot.InitScheduler(sweeper)
	defer boot.StopScheduler()

	router := setupRouter()

	appHost := os.Getenv("APP_HOST")
	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		cc.AllowOriginFunc = func(origin string) bool {
			match, _ := regexp.MatchString(appHost, origin)
			return match
		}
		cc.AllowCredentials = true
		cc.AllowAllOrigins = false
		router.Use(cors.New(cc))
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("servicecode", serviceCodeValidatorFunc)
		v.RegisterValidation("bookingdate", bookingDateValidatorFunc)
		v.RegisterValidation("clocktime", clockTimeValidatorFunc)
	}

	publicRoutes(router)
	webhookRoutes(router)
	authorizedRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("error starting server: %s\n", err.Error())
	}
}
