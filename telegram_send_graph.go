package main

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/pivolan/ocorrencias_analyzer/plot"
	"github.com/rs/zerolog/log"
)

// larger images are sent as documents so telegram does not recompress them
const maxSizePhoto = 150000

// sendGraphVisualization sends a rendered chart as a photo, or as a document
// when the image is large.
func sendGraphVisualization(graph []byte, c *plot.Chart, chatID int64, api sender) {
	pngFile := tgbotapi.FileBytes{
		Name:  plot.FileName(c, "png"),
		Bytes: graph,
	}

	var upload tgbotapi.Chattable
	if len(graph) < maxSizePhoto {
		photo := tgbotapi.NewPhotoUpload(chatID, pngFile)
		photo.Caption = generateVizualDescription(c)
		upload = photo
	} else {
		doc := tgbotapi.NewDocumentUpload(chatID, pngFile)
		doc.Caption = generateVizualDescription(c)
		upload = doc
	}

	if _, err := api.Send(upload); err != nil {
		log.Error().Err(err).Str("label", c.Label).Msg("send chart")
		errMsg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Não foi possível enviar o gráfico. Erro: %v", err))
		api.Send(errMsg)
	}
}

func generateVizualDescription(c *plot.Chart) string {
	caption := c.Title
	switch {
	case c.XAxis != "" && c.YAxis != "":
		caption += fmt.Sprintf("\n%s × %s", c.XAxis, c.YAxis)
	case c.YAxis != "":
		caption += "\n" + c.YAxis
	}
	return caption
}
