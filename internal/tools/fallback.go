package tools

import (
	"fmt"
	"strings"

	"pitchforge/internal/model"
)

// FallbackContent 上游生成失败时使用的静态内容
func FallbackContent(slideType model.SlideType, useCase model.UseCase) string {
	switch slideType {
	case model.SlideProblem:
		return fmt.Sprintf("Current solutions in this market are outdated and fail to meet modern user needs. Customers face significant challenges with existing approaches, creating substantial pain points and inefficiencies. This represents a major opportunity for innovation and disruption in the %s space.", useCase)
	case model.SlideSolution:
		return fmt.Sprintf("Our innovative approach directly addresses these market gaps through cutting-edge technology and user-centric design. We provide a comprehensive solution that eliminates key pain points while delivering exceptional value. Our platform is specifically designed for %s success with measurable results.", useCase)
	case model.SlideMarket:
		return "The addressable market represents a multi-billion dollar opportunity with strong growth fundamentals and increasing demand. Market trends indicate significant potential for disruption, with early adopters showing strong willingness to adopt new solutions. Our target segment is underserved and ready for innovation."
	case model.SlideProduct:
		return "Our product features advanced capabilities that differentiate us from existing solutions in the market. We offer intuitive user experience, robust functionality, and seamless integration capabilities. The platform is built for scale with enterprise-grade security and reliability."
	case model.SlideTeam:
		return "Our experienced team combines deep industry expertise with proven execution capabilities and strong technical backgrounds. Led by seasoned entrepreneurs with successful track records, supported by advisors with extensive networks and domain knowledge. We have the right team to execute this vision successfully."
	}
	return fmt.Sprintf("Compelling %s content tailored for your %s presentation. Our solution addresses key market needs with innovative technology and proven results.", strings.ToLower(string(slideType)), useCase)
}
