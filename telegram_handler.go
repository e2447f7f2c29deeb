package main

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/pivolan/ocorrencias_analyzer/catalog"
	"github.com/pivolan/ocorrencias_analyzer/dashboard"
	"github.com/pivolan/ocorrencias_analyzer/executor"
	"github.com/pivolan/ocorrencias_analyzer/plot"
	"github.com/pivolan/ocorrencias_analyzer/present"
	"github.com/rs/zerolog/log"
)

// telegram rejects longer messages
const maxMessageLength = 4096

// sender is the part of *tgbotapi.BotAPI the handlers use.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type telegramHandler struct {
	api  sender
	dash *dashboard.Dashboard
	rows int
}

func newTelegramHandler(api sender, dash *dashboard.Dashboard, rows int) *telegramHandler {
	return &telegramHandler{api: api, dash: dash, rows: rows}
}

// runBot polls telegram until ctx is done. Every message is handled in its own
// goroutine.
func runBot(ctx context.Context, token string, dash *dashboard.Dashboard, rows int) error {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return fmt.Errorf("tg error: %w", err)
	}
	log.Info().Str("account", bot.Self.UserName).Msg("bot authorized")
	handler := newTelegramHandler(bot, dash, rows)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates, err := bot.GetUpdatesChan(u)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			go handler.handleText(ctx, update.Message)
		}
	}
}

func (h *telegramHandler) send(c tgbotapi.Chattable) {
	if _, err := h.api.Send(c); err != nil {
		log.Error().Err(err).Msg("telegram send failed")
	}
}

func (h *telegramHandler) reply(chatID int64, text string) {
	h.send(tgbotapi.NewMessage(chatID, text))
}

func (h *telegramHandler) handleText(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	switch message.Command() {
	case "start", "ajuda", "help":
		h.reply(chatID, h.startText())
		return
	case "consulta":
		h.handleQuery(ctx, chatID, message.CommandArguments())
		return
	case "":
		h.handleQuery(ctx, chatID, message.Text)
		return
	}
	h.reply(chatID, "Comando desconhecido. Use /start para ver as consultas disponíveis.")
}

func (h *telegramHandler) startText() string {
	var b strings.Builder
	b.WriteString("Olá! Eu mostro consultas sobre ocorrências aéreas.\n\n")
	for _, label := range h.dash.Catalog().Labels() {
		b.WriteString(label)
		b.WriteString("\n")
	}
	b.WriteString("\nEnvie /consulta N ou apenas o número da consulta.")
	return b.String()
}

// parseQueryNumber accepts "3", " 3 " and "3." as query number 3.
func parseQueryNumber(text string) (int, error) {
	text = strings.TrimSuffix(strings.TrimSpace(text), ".")
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("invalid query number %q", text)
	}
	return n, nil
}

func (h *telegramHandler) handleQuery(ctx context.Context, chatID int64, arg string) {
	n, err := parseQueryNumber(arg)
	if err != nil {
		h.reply(chatID, "Envie o número da consulta, por exemplo /consulta 7. Use /start para ver a lista.")
		return
	}
	def, err := h.dash.Catalog().ByNumber(n)
	if err != nil {
		h.reply(chatID, fmt.Sprintf("Consulta %d não existe. Use /start para ver a lista.", n))
		return
	}

	sel, err := h.dash.Select(ctx, def.Label, h.rows)
	if err != nil {
		var execErr *executor.ExecutionError
		var unknown *catalog.UnknownLabelError
		switch {
		case errors.As(err, &execErr):
			h.reply(chatID, "Erro ao executar a consulta: "+execErr.Err.Error())
		case errors.As(err, &unknown):
			h.reply(chatID, "Consulta desconhecida.")
		default:
			h.reply(chatID, "Erro: "+err.Error())
		}
		return
	}

	if sel.Empty() {
		h.reply(chatID, def.Label+"\n\nA consulta não retornou resultados.")
		return
	}

	msg := tgbotapi.NewMessage(chatID, previewMessage(def.Label, present.TextTable(sel.Result, sel.Rows)))
	msg.ParseMode = tgbotapi.ModeHTML
	h.send(msg)

	csv, err := present.ExportCSV(sel.Result)
	if err != nil {
		log.Error().Err(err).Str("label", def.Label).Msg("export csv")
	} else {
		doc := tgbotapi.NewDocumentUpload(chatID, tgbotapi.FileBytes{Name: present.ExportFileName, Bytes: csv})
		doc.Caption = fmt.Sprintf("%d linhas", sel.Result.Len())
		h.send(doc)
	}

	switch {
	case sel.Warning != "":
		h.reply(chatID, sel.Warning)
	case sel.Chart != nil:
		graph, err := plot.RenderPNG(sel.Chart)
		if err != nil {
			h.reply(chatID, dashboard.WarningText(err))
			return
		}
		sendGraphVisualization(graph, sel.Chart, chatID, h.api)
	}
}

// previewMessage wraps the table in <pre>, cutting it to fit one message.
func previewMessage(label, table string) string {
	head := "<b>" + html.EscapeString(label) + "</b>\n<pre>"
	const tail = "</pre>"
	body := html.EscapeString(table)
	if room := maxMessageLength - len(head) - len(tail) - len("\n…"); len(body) > room {
		cut := strings.LastIndexByte(body[:room], '\n')
		if cut < 0 {
			cut = room
		}
		body = body[:cut] + "\n…"
	}
	return head + body + tail
}
