package main

import (
	"github.com/aura-studio/fxlambda/app"
	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
)

type Service struct{}

func NewService() *Service { return &Service{} }

func (s *Service) Hello() map[string]string {
	return map[string]string{"msg": "Hello World!"}
}

// Module serves GET / on whichever engine the adapter selected.
var Module = fx.Module("hello",
	fx.Provide(NewService),
	fx.Invoke(register),
)

func register(a *app.App, s *Service) {
	switch r := a.Instance().(type) {
	case *gin.Engine:
		r.GET("/", func(c *gin.Context) { c.JSON(200, s.Hello()) })
	case *fiber.App:
		r.Get("/", func(c *fiber.Ctx) error { return c.JSON(s.Hello()) })
	}
}
