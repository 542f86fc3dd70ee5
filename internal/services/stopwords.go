package services

import "strings"

// stopWords are dropped before keyword matching. Besides the usual English
// function words it carries the filler vocabulary of job adverts and résumés.
var stopWords = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(stopWordList) {
		set[w] = struct{}{}
	}
	return set
}()

const stopWordList = `
a ability able about above across act action activities activity adapt addition additional
address advantage advantageous affect after afterward again against agency ain all almost
along alongside already also although always am among amongst amount an and annual another
any anyhow anyone anything anyway anywhere appeal applicable apply approach appropriate
april are area aren around as aspect aspects asset associated at atmosphere attitude
attractive august background based basis be because become becomes becoming been before
beforehand behind being below beneficial benefit benefits beside besides best better
between beyond biodata birth bonus both bring building business but by can candidate
candidates capability capacity career cause center certain certainly cgpa challenge chance
change changes clear clearly client collaboration collaborative colleague come
commensurate commitment common communication company compared compensation competency
complete comprehensive computer concept concern concerning condition consider considering
consistent contact continuous contribution coordinate corp corporation could couldn
country course cover create criteria critical crucial culture current currently customer
cv d daily date deadline december degree deliver demonstrable demonstrate department
description desirable detail details did didn different direct directly disability
discussion diverse do does doesn doing don done down due during duties duty e each early
effect effective effectively efficiency efficient effort efforts eg eight either eligible
email employee employer employment enable encourage end engage ensure enter entire
environment equal especially essential etc even event ever every everybody everyone
everything everywhere evidence evolution example excellent except exchange execute
experienced explain exposure extend extent extra facilitate fact factor familiar
familiarity fast-paced fastpaced father february feel few field final finally find first
five focus follow following for found foundational four frequently from full fully
function functional further furthermore future g gender general generally get github give
given global go goal goals good gpa grade graduate grasp great group grow growing growth
guidance had hadn handson happy hard has hasn have haven having he health help helpful
hence her here hereafter hereby herein hereupon hers herself high high-quality highly
highquality him himself his holiday home hour hours how however human i ideal ie if impact
important improve in inc include includes including increase indeed individual industry
influence information initiative initiatives inner input inside insight instance instead
insure interest interested internal internship into introduce introduction involved
involving is isn issue it its itself january job join july june just keen keep key kind
languages large last later latter latterly least leave less let level like likely limited
linkedin little ll llc location long look looking ltd m ma made main mainly maintain major
make making man manage many march market may maybe me mean meanwhile member mention might
mightn minimum mission monday month monthly more moreover morning most mostly move much
multiple must mustn mutual my myself name namely nationality navigate near necessary need
needn needs neither never nevertheless new next nine no nobody non none noone nor normal
normally not nothing notice november now nowhere number o obtain occasionally october of
off offer office often on once one ones online only onto open opportunities opportunity
opposite or order organization organizational other others otherwise ought our ours
ourselves out outside over overall overview own package paid part particular particularly
partner party pass passion past pay people per perform perhaps period person personal
phase phone place plan please plus point popular portfolio position possible post
potential practical practice preferred presence present previous previously price primary
principle prior priority private proactive probably problem-solving productive profession
professional proficiency proficient profile program progress promote property provide
provided publications purpose put qualification quality quantity quarter question quick
quickly quite rather re reach readily ready really reason recent references regarding
region regular related relation relationship relaxed relevant report reporting respect
responsibilities responsible result results resume role room round s said salary same
saturday say says school scope seamless season second see seeing seek seeking seem seemed
seeming seems seen select self self-directed selfdirected send senior sense september
serious serve seven several shall shan share she shift short should shouldn show
showcasing showing side significant similar similarly simple since sincere six small so
soft software some somehow someone something sometime sometimes somewhat somewhere soon
sorry specialist specific specifically staff stakeholder stakeholders standard standards
start state status stay step still strategic strategy strong structure student study style
subject submit success successful such suitable summary sunday support supportive sure t
take taking task tasks teamwork technical technologies tell ten term terms than thank
thanks that the their theirs them themselves then thence there thereafter thereby
therefore therein thereupon these they thing things think third this thorough thoroughly
those though three through throughout thru thursday thus time timely to today together
tomorrow too tools top total toward towards track train training trend tuesday turn two
type under understand understanding unique university unless unlike unlikely until up
update upon us use used useful user-friendly userfriendly using usually utilize valuable
value various ve verbal version very via view visit vitae vital volume volunteer want was
wasn way ways we wednesday week weekly welcome well well-documented welldocumented went
were weren what whatever when whence whenever where whereafter whereas whereby wherein
whereupon wherever whether which while whither who whoever whole whom whose why wide will
willingness with within without woman won work world worldwide would wouldn write written
y year years yes yet you your yours yourself yourselves zero
`
