package gateway

import "github.com/bwmarrin/discordgo"

// commandSchema 是注册到平台的斜杠命令定义。参数的类型与必填性
// 在这里声明，网关收到事件时类型已经由平台保证。
func commandSchema() []*discordgo.ApplicationCommand {
	var (
		minTemperature = 0.0
		maxTemperature = 2.0
		minMaxTokens   = 100.0
		maxMaxTokens   = 4000.0
	)

	chatOptions := func() []*discordgo.ApplicationCommandOption {
		return []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "text",
				Description: "Text message to send to chatgpt",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "model",
				Description: "Model of chatgpt to use",
			},
			{
				Type:        discordgo.ApplicationCommandOptionNumber,
				Name:        "temperature",
				Description: "Temperature of ChatGPT message(0~2)",
				MinValue:    &minTemperature,
				MaxValue:    maxTemperature,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "max_tokens",
				Description: "Max message length (100~4000)",
				MinValue:    &minMaxTokens,
				MaxValue:    maxMaxTokens,
			},
		}
	}

	serverNameOption := func(desc string) []*discordgo.ApplicationCommandOption {
		return []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "name",
			Description: desc,
			Required:    true,
		}}
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "ping",
			Description: "Pong!",
		},
		{
			Name:        "boketsu",
			Description: "Manage boketsu user's boketsu points",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Add specify boketsu points to user",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "User to add boketsu point", Required: true},
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "point", Description: "Amount of boketsu point to add", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove specify boketsu points to user",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "User to remove boketsu point", Required: true},
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "point", Description: "Amount of boketsu point to remove", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "stats",
					Description: "Show boketsu stats of specify user",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "User to show boketsu stats", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "ranking",
					Description: "Show boketsu point ranking",
				},
			},
		},
		{
			Name:        "pterodactyl",
			Description: "Manage chihuyu network's pterodactyl",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "servers", Description: "List all servers"},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "nodeinfo", Description: "Display informations of specify node", Options: serverNameOption("Node name to display informations")},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "serverinfo", Description: "Display informations of specify server", Options: serverNameOption("Server name to display informations")},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "up", Description: "Start the specify server", Options: serverNameOption("Server name to start")},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "down", Description: "Shutdown the specify server", Options: serverNameOption("Server name to shutdown")},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "restart", Description: "Restart the specify server", Options: serverNameOption("Server name to restart")},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "kill", Description: "Kill the specify server", Options: serverNameOption("Server name to kill")},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "send", Description: "Send command to server",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Server name to send command", Required: true},
						{Type: discordgo.ApplicationCommandOptionString, Name: "command", Description: "Don't need slash", Required: true},
					},
				},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "backups", Description: "List all server's backups"},
			},
		},
		{
			Name:        "chatgpt",
			Description: "Use ChatGPT API",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "new", Description: "Start new session with ChatGPT", Options: chatOptions()},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "reply", Description: "Continue communication in current session", Options: chatOptions()},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "image", Description: "Create image by given words",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "words", Description: "Words to generate image", Required: true},
					},
				},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "models", Description: "List of chatgpt's model"},
			},
		},
		{
			Name:        "youtube-thumbnail",
			Description: "Show thumbnails of youtube video",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "target",
					Description: "ID or URL of youtube video",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "mode",
					Description: "Thumbnail type of video",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Default", Value: "default"},
						{Name: "High Quality", Value: "hqdefault"},
						{Name: "Medium Quality", Value: "mqdefault"},
						{Name: "Standard", Value: "sddefault"},
						{Name: "Maximum", Value: "maxresdefault"},
					},
				},
			},
		},
		{
			Name:        "valorant-spread",
			Description: "Spread members play valorant for custom mode",
		},
	}
}
