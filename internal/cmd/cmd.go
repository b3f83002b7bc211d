package cmd

import (
	"context"

	"github.com/conlawai/conlaw/core/config"
	"github.com/conlawai/conlaw/internal/controller/conlaw"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/net/ghttp"
	"github.com/gogf/gf/v2/os/gcmd"
)

var (
	Main = gcmd.Command{
		Name:  "main",
		Usage: "main",
		Brief: "start the constitution qa http server",
		Func: func(ctx context.Context, parser *gcmd.Parser) (err error) {
			if err = config.ValidateConfiguration(ctx); err != nil {
				return err
			}

			svc, err := buildServices(ctx)
			if err != nil {
				return err
			}
			defer svc.close(ctx)

			s := g.Server()
			s.Group("/api", func(group *ghttp.RouterGroup) {
				group.Middleware(MiddlewareHandlerResponse, ghttp.MiddlewareCORS)
				group.Bind(
					conlaw.NewV1(svc.manager, svc.fetcher),
				)
			})
			s.Run()
			return nil
		},
	}
)
