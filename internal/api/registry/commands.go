package registry

import "MahoutGolang/internal/entity"

// Catalog is the canonical actuator vocabulary. It is the single source of
// truth for every command reference in the system; the service validates it
// at startup and the process refuses to boot on any inconsistency.
var Catalog = []entity.Command{
	{ID: 1, Action: "Turn Left", Labels: map[entity.Language]string{
		entity.LanguageMalayalam: "ഇടത്താനെ (Idathāne)",
		entity.LanguageHindi:     "बाएं (Bāẽ)",
		entity.LanguageGujarati:  "ડાબે (Ḍābe)",
	}},
	{ID: 2, Action: "Turn Right", Labels: map[entity.Language]string{
		entity.LanguageMalayalam: "വലത്താനെ (Valathāne)",
		entity.LanguageHindi:     "दाएं (Dāẽ)",
		entity.LanguageGujarati:  "જમણે (Jamaṇe)",
	}},
	{ID: 3, Action: "Walk Forward", Labels: map[entity.Language]string{
		entity.LanguageMalayalam: "നടയാനെ (Naṭayāne)",
		entity.LanguageHindi:     "चल (Chal)",
		entity.LanguageGujarati:  "ચાલ (Chāl)",
	}},
	{ID: 4, Action: "Walk Backward", Labels: map[entity.Language]string{
		entity.LanguageMalayalam: "സെറ്റാനെ (Seṭṭāne)",
		entity.LanguageHindi:     "पीछे (Pīche)",
		entity.LanguageGujarati:  "પાછળ (Pāchaḷ)",
	}},
	{ID: 5, Action: "Stop", Labels: map[entity.Language]string{
		entity.LanguageMalayalam: "നില്ലാനെ (Nillāne)",
		entity.LanguageHindi:     "ठहर (Thahar)",
		entity.LanguageGujarati:  "થોભ (Thobh)",
	}},
	{ID: 6, Action: "Lie down", Labels: map[entity.Language]string{
		entity.LanguageMalayalam: "കിടന്നാനെ (Kiṭannāne)",
		entity.LanguageHindi:     "लेट (Leṭ)",
		entity.LanguageGujarati:  "પડ (Paḍ)",
	}},
	{ID: 7, Action: "Sit", Labels: map[entity.Language]string{
		entity.LanguageMalayalam: "ഇരിയാനെ (Iriyāne)",
		entity.LanguageHindi:     "बैठ (Baiṭh)",
		entity.LanguageGujarati:  "બેસ (Bes)",
	}},
	{ID: 8, Action: "Lock foot firmly", Labels: map[entity.Language]string{
		entity.LanguageMalayalam: "ഊന്നാനെ (Ūnnāne)",
		entity.LanguageHindi:     "जमीन दबा (Jamīn dabā)",
		entity.LanguageGujarati:  "જમીન દબાવ (Jamīn dabāv)",
	}},
	{ID: 9, Action: "Lift trunk", Labels: map[entity.Language]string{
		entity.LanguageMalayalam: "ഭീരിയാനെ (Bhīriyāne)",
		entity.LanguageHindi:     "सूंड उठा (Sūṇḍ uṭhā)",
		entity.LanguageGujarati:  "સુંડ ઊંચી કર (Sūṇḍ ū̃chī kar)",
	}},
	{ID: 10, Action: "Bend down for leaves", Labels: map[entity.Language]string{
		entity.LanguageMalayalam: "എടാനെ (Eṭāne)",
		entity.LanguageHindi:     "झुक कर ले (Jhuk kar le)",
		entity.LanguageGujarati:  "ઝુકીને લે (Jhūkīne le)",
	}},
	{ID: 11, Action: "Lift leaves with trunk", Labels: map[entity.Language]string{
		entity.LanguageMalayalam: "താങ്ങാനെ (Tāṅṅāne)",
		entity.LanguageHindi:     "सूंड से उठा (Sūṇḍ se uṭhā)",
		entity.LanguageGujarati:  "સુંડથી ઊંચક (Sūṇḍthī ū̃chak)",
	}},
	{ID: 12, Action: "Give blessing", Labels: map[entity.Language]string{
		entity.LanguageMalayalam: "ആശീർവദിക്കാനെ (Āśīrvadikkāne)",
		entity.LanguageHindi:     "आशीर्वाद दो (Āśīrvād do)",
		entity.LanguageGujarati:  "આશીર્વાદ આપ (Āśīrvād āp)",
	}},
	{ID: 13, Action: "Move ears", Labels: map[entity.Language]string{
		entity.LanguageMalayalam: "ചെവിയാട്ടാനെ (Cheviyāṭṭāne)",
		entity.LanguageHindi:     "कान हिला (Kān hilā)",
		entity.LanguageGujarati:  "કાન હલાવ (Kān halāv)",
	}},
	{ID: 14, Action: "Move head", Labels: map[entity.Language]string{
		entity.LanguageMalayalam: "തലയാട്ടാനെ (Talayāṭṭāne)",
		entity.LanguageHindi:     "सिर हिला (Sir hilā)",
		entity.LanguageGujarati:  "ડોક હલાવ (Ḍok halāv)",
	}},
	{ID: 15, Action: "Lift front leg", Labels: map[entity.Language]string{
		entity.LanguageMalayalam: "നട പൊക്കാനെ (Naṭa pokkāne)",
		entity.LanguageHindi:     "आगे पैर उठा (Āge pair uṭhā)",
		entity.LanguageGujarati:  "આગળનો પગ ઊંચો કર (Āgaḷno pag ū̄cho kar)",
	}},
	{ID: 16, Action: "Lift back leg", Labels: map[entity.Language]string{
		entity.LanguageMalayalam: "അമരം പൊക്കാനെ (Amaram pokkāne)",
		entity.LanguageHindi:     "पीछे पैर उठा (Pīche pair uṭhā)",
		entity.LanguageGujarati:  "પાછળનો પગ ઊંચો કર (Pāchaḷno pag ū̄cho kar)",
	}},
	{ID: 17, Action: "Close eyes", Labels: map[entity.Language]string{
		entity.LanguageMalayalam: "കണ്ണ് അടയ്ക്കാനെ (Kaṇṇ aṭaykkāne)",
		entity.LanguageHindi:     "आंख बंद (Āṅkh band)",
		entity.LanguageGujarati:  "આંખો બંધ કર (Āṅkho bandh kar)",
	}},
	{ID: 18, Action: "Spray water", Labels: map[entity.Language]string{
		entity.LanguageMalayalam: "ഭീരി ഒഴിയാനെ (Bhīri oḻiyāne)",
		entity.LanguageHindi:     "पानी छिड़क (Pānī chiṛak)",
		entity.LanguageGujarati:  "પાણી છાંટ (Pāṇī chhāṇṭ)",
	}},
	{ID: 19, Action: "Stretch legs", Labels: map[entity.Language]string{
		entity.LanguageMalayalam: "നീട്ടി വെയ്യാനെ (Nīṭṭi veyyāne)",
		entity.LanguageHindi:     "पैर फैला (Pair phailā)",
		entity.LanguageGujarati:  "પગ લંબાવ (Pag lambāv)",
	}},
	{ID: 20, Action: "Make sound", Labels: map[entity.Language]string{
		entity.LanguageMalayalam: "ഒന്നു വിളിച്ചെയാനെ (Onnu viḷiccheyāne)",
		entity.LanguageHindi:     "आवाज कर (Āvāj kar)",
		entity.LanguageGujarati:  "અવાજ કર (Avāj kar)",
	}},
	{ID: 21, Action: "Lift leg for climbing", Labels: map[entity.Language]string{
		entity.LanguageMalayalam: "മടക്കാനെ (Maṭakkāne)",
		entity.LanguageHindi:     "चढ़ने के लिए पैर उठा (Chaṛhne ke lie pair uṭhā)",
		entity.LanguageGujarati:  "ચડવા માટે પગ ઊંચો કર (Chaḍvā māṭe pag ū̄cho kar)",
	}},
	{ID: 22, Action: "Stand straight", Labels: map[entity.Language]string{
		entity.LanguageMalayalam: "നേരെ നില്ലാനെ (Nēre nillāne)",
		entity.LanguageHindi:     "सीधे खड़े हो (Sīdhe khaṛe ho)",
		entity.LanguageGujarati:  "સીધા ઊભા રહે (Sīdhā ū̄bhā rahe)",
	}},
	{ID: 23, Action: "Eat", Labels: map[entity.Language]string{
		entity.LanguageMalayalam: "തിന്നോ ആനെ (Thinnō āne)",
		entity.LanguageHindi:     "खा लो (Khā lo)",
		entity.LanguageGujarati:  "ખા લે (Khā le)",
	}},
}
